// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

// HTTP delivery layer for the auth domain.
//
// # Architecture
//
// The handler acts as a thin mediation layer between the web and the domain
// service:
//   - Protocol: Standard RESTful JSON interface.
//   - Verification: Enforces strict input validation before passing to [Service].
//
// This layer is strictly responsible for transport concerns (status codes,
// headers, JSON).
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/pgnest/pgnest/internal/platform/request"
	"github.com/pgnest/pgnest/internal/platform/respond"
	"github.com/pgnest/pgnest/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the account lifecycle entry points (registration,
// login, OTP issuance/verification, password recovery).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Register attaches the authentication endpoints to the given router.
// The frontend addresses them at the API root, with no prefix.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Authenticates and returns a session token.
//   - POST /send-otp        : Issues a one-time code to an email.
//   - POST /verify-otp      : Checks a one-time code.
//   - POST /forgot-password : Overwrites the password for a known email.
func (handler *Handler) Register(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/send-otp", handler.sendOtp)
	router.Post("/verify-otp", handler.verifyOtp)
	router.Post("/forgot-password", handler.forgotPassword)
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendOtpRequest struct {
	Email string `json:"email"`
}

type verifyOtpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type forgotPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new account.

POST /register

Description: Validates input, checks for email conflicts, and persists a new
account to the database.

Request:
  - Body: registerRequest (Name, Email, Password)

Response:
  - 201: Account: Created account profile
  - 400: ErrInvalidJSON / validation failure / email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
Login authenticates an account and issues a session token.

POST /login

Description: Verifies credentials and returns a self-contained 24-hour token
together with the account profile.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Token and account profile
  - 404: NotFound: Unknown email
  - 400: INVALID_CREDENTIALS: Wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldToken: session.Token,
		FieldUser:  session.Account,
	})
}

/*
SendOtp issues a one-time code to the given email.

POST /send-otp

Description: Generates a 6-digit code, stores it on the matching account or
as a pending pre-registration record, and dispatches it by email.

Request:
  - Body: sendOtpRequest (Email)

Response:
  - 200: Success: Code dispatched
  - 400: ErrInvalidJSON: Invalid email format
  - 500: INTERNAL_ERROR: Storage or dispatch failure
*/
func (handler *Handler) sendOtp(writer http.ResponseWriter, request *http.Request) {
	var input sendOtpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SendOtp(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "OTP sent successfully",
	})
}

/*
VerifyOtp checks a submitted one-time code.

POST /verify-otp

Description: Resolves the code account-first, then from the pending store.
On success the response carries the flow context tag so the client knows
which path matched.

Request:
  - Body: verifyOtpRequest (Email, OTP)

Response:
  - 200: VerifyOtpResult: Verified flag plus context tag
  - 400: INVALID_OTP / OTP_EXPIRED / NOT_FOUND
*/
func (handler *Handler) verifyOtp(writer http.ResponseWriter, request *http.Request) {
	var input verifyOtpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldOTP, input.OTP)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.VerifyOtp(request.Context(), input.Email, input.OTP)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
ForgotPassword overwrites the password for a known email.

POST /forgot-password

Description: Completes the recovery flow the client runs after verify-otp.
The new password replaces the old one and the outstanding code is disarmed.

Request:
  - Body: forgotPasswordRequest (Email, Password)

Response:
  - 200: Success: Password updated
  - 404: NotFound: Unknown email
  - 400: ErrInvalidJSON: Validation failure
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Email, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password reset successfully",
	})
}
