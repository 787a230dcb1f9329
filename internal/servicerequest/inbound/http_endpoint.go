package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/greenvista/internal/pkg/router"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/usecase"
)

// HTTPEndpoint exposes service request intake over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP mails a verification code for an upcoming request.
// @Summary Send service request OTP
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body SendOTPRequest false "Destination, defaults to the caller's email"
// @Success 200 {object} router.successResponse{data=SendOTPResponse}
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Failed to send OTP"
// @Router /api/v1/requests/send-otp [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if r.ContentLength != 0 {
		if err := r.DecodeBody(&req); err != nil {
			return nil, err
		}
	}

	out, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{OTPID: out.OTPID, Email: out.Email, ExpiresAt: out.ExpiresAt}, nil
}

// Create submits a service request.
// @Summary Create service request
// @Tags Requests
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client retry key"
// @Param request body CreateRequest true "Request"
// @Success 201 {object} router.successResponse{data=ServiceRequestResponse}
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 409 {object} router.errorResponse "Duplicate request"
// @Router /api/v1/requests [post]
func (h *HTTPEndpoint) Create(r *router.Request) (any, error) {
	var req CreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Create(r.Context(), usecase.CreateInput{
		Type:           req.Type,
		Details:        req.Details,
		Images:         req.Images,
		Email:          req.Email,
		OTP:            req.OTP.String(),
		IdempotencyKey: r.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return CreateResponse{ServiceRequestResponse: newServiceRequest(*out)}, nil
}

func (h *HTTPEndpoint) ListMine(r *router.Request) (any, error) {
	page, size, err := paging(r)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ListMine(r.Context(), usecase.ListMineInput{Page: page, Size: size})
	if err != nil {
		return nil, err
	}

	return newPagedList(out), nil
}

func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	page, size, err := paging(r)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.List(r.Context(), usecase.ListInput{
		Status: r.GetQuery("status"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	return newPagedList(out), nil
}

// paging reads page and size. limit is accepted as an alias of size.
func paging(r *router.Request) (int, int, error) {
	page, err := r.GetQueryInt("page")
	if err != nil {
		return 0, 0, err
	}

	size, err := r.GetQueryInt(lo.Ternary(r.GetQuery("size") == "" && r.GetQuery("limit") != "", "limit", "size"))
	if err != nil {
		return 0, 0, err
	}

	return page, size, nil
}
