package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"cycletrack/internal/delivery/api/response"
	deliverycontext "cycletrack/internal/delivery/context"
	domainerrors "cycletrack/internal/domain/errors"
	"cycletrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var errInvalidVariables = domainerrors.NewBaseError(
	http.StatusBadRequest,
	"INVALID_INPUT",
	"Invalid operation variables",
	"",
)

// Operation names accepted by the API endpoint.
const (
	OpSignup                   = "signup"
	OpSignin                   = "signin"
	OpCreateUserDOB            = "createUserDOB"
	OpUserCycleAndPeriodLength = "userCycleAndPeriodLength"
	OpAddHeight                = "addHeight"
	OpAddWeight                = "addWeight"
	OpMarkLastPeriod           = "markLastPeriod"
	OpChoosePreferences        = "choosePreferences"
	OpGetAllUsers              = "getAllUsers"
	OpGetSpecificUser          = "getSpecificUser"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// operationFunc decodes an operation's variables and runs it.
type operationFunc func(c echo.Context, variables json.RawMessage) (any, error)

// AccountHandler dispatches named operations to the account usecase.
type AccountHandler struct {
	accountUC  usecase.AccountUsecase
	logger     *slog.Logger
	operations map[string]operationFunc
}

// OperationRequest is the body of POST /api.
type OperationRequest struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables"`
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	h := &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}

	h.operations = map[string]operationFunc{
		OpSignup:         bind[usecase.RegisterInput](nil, h.accountUC.Register),
		OpSignin:         bind[usecase.AuthenticateInput](nil, h.accountUC.Authenticate),
		OpCreateUserDOB:  bind(func(in *usecase.SetDateOfBirthInput) *string { return &in.Token }, h.accountUC.SetDateOfBirth),
		OpAddHeight:      bind(func(in *usecase.SetHeightInput) *string { return &in.Token }, h.accountUC.SetHeight),
		OpAddWeight:      bind(func(in *usecase.SetWeightInput) *string { return &in.Token }, h.accountUC.SetWeight),
		OpMarkLastPeriod: bind(func(in *usecase.SetLastPeriodInput) *string { return &in.Token }, h.accountUC.SetLastPeriod),
		OpUserCycleAndPeriodLength: bind(func(in *usecase.SetCycleAndPeriodInput) *string { return &in.Token },
			h.accountUC.SetCycleAndPeriod),
		OpChoosePreferences: bind(func(in *usecase.SetPreferencesInput) *string { return &in.Token },
			h.accountUC.SetPreferences),
		OpGetSpecificUser: bind(func(in *usecase.GetAccountInput) *string { return &in.Token },
			h.accountUC.GetAccount),
		OpGetAllUsers: func(c echo.Context, _ json.RawMessage) (any, error) {
			return h.accountUC.ListAccounts(c.Request().Context())
		},
	}

	return h
}

// Operations lists the registered operation names in sorted order.
func (h *AccountHandler) Operations() []string {
	names := make([]string, 0, len(h.operations))
	for name := range h.operations {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Execute handles POST /api: it runs one named operation and wraps its result under data.<operation>.
func (h *AccountHandler) Execute(c echo.Context) error {
	var req OperationRequest
	if err := c.Bind(&req); err != nil || req.Operation == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Request body must be a JSON object with operation and variables")
	}

	run, ok := h.operations[req.Operation]
	if !ok {
		h.logger.Debug("Unknown operation requested", slog.String("operation", req.Operation))

		return response.BadRequestWithDetails(c, "UNKNOWN_OPERATION", "Unknown operation: "+req.Operation, map[string]any{
			"operations": h.Operations(),
		})
	}
	deliverycontext.SetOperation(c, req.Operation)

	result, err := run(c, req.Variables)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{req.Operation: result})
}

// Welcome handles GET /.
func (h *AccountHandler) Welcome(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"message":    "Welcome to the cycle tracking API. POST operations to /api.",
		"operations": h.Operations(),
	})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes variables into a fresh T and runs the operation. When token is set and the
// variables carry no token, the Authorization header token is used instead.
func bind[T, R any](token func(*T) *string, run func(context.Context, *T) (R, error)) operationFunc {
	return func(c echo.Context, variables json.RawMessage) (any, error) {
		in, err := decodeVariables[T](variables)
		if err != nil {
			return nil, err
		}

		if token != nil {
			if field := token(in); *field == "" {
				*field = deliverycontext.GetBearerToken(c)
			}
		}

		if err := c.Validate(in); err != nil {
			return nil, err
		}

		out, err := run(c.Request().Context(), in)
		if err != nil {
			return nil, err
		}

		return out, nil
	}
}

func decodeVariables[T any](variables json.RawMessage) (*T, error) {
	in := new(T)

	trimmed := bytes.TrimSpace(variables)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return in, nil
	}

	if err := json.Unmarshal(trimmed, in); err != nil {
		return nil, errInvalidVariables.WithDetails(describeDecodeError(err))
	}

	return in, nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + " must be " + typeErr.Type.String()
	}

	return strings.TrimPrefix(err.Error(), "json: ")
}
