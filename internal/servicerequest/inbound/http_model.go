package inbound

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/greenvista/internal/pkg/otp"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/entity"
	"github.com/shandysiswandi/greenvista/internal/servicerequest/usecase"
)

// HeaderIdempotencyKey lets a client retry a create safely.
const HeaderIdempotencyKey = "Idempotency-Key"

type SendOTPRequest struct {
	Email string `json:"email"`
}

type SendOTPResponse struct {
	OTPID     string    `json:"otp_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (SendOTPResponse) Message() string { return "OTP sent successfully" }

type CreateRequest struct {
	Type    string   `json:"type"`
	Details string   `json:"details"`
	Images  []string `json:"images"`
	Email   string   `json:"email"`
	OTP     otp.Code `json:"otp"`
}

type ServiceRequestResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Type      string    `json:"type"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newServiceRequest(sr entity.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:        strconv.FormatInt(sr.ID, 10),
		OwnerID:   strconv.FormatInt(sr.OwnerID, 10),
		Type:      sr.Type,
		Details:   sr.Details,
		Status:    sr.Status.String(),
		Images:    lo.Ternary(sr.Images == nil, []string{}, sr.Images),
		CreatedAt: sr.CreatedAt,
		UpdatedAt: sr.UpdatedAt,
	}
}

type CreateResponse struct {
	ServiceRequestResponse
}

func (CreateResponse) Message() string { return "Service request created successfully" }

func (CreateResponse) StatusCode() int { return http.StatusCreated }

type pagedList struct {
	items []ServiceRequestResponse
	meta  map[string]any
}

func newPagedList(p *usecase.Page) pagedList {
	pages := int64(0)
	if p.Size > 0 {
		pages = (p.Total + int64(p.Size) - 1) / int64(p.Size)
	}

	return pagedList{
		items: lo.Map(p.Items, func(sr entity.ServiceRequest, _ int) ServiceRequestResponse {
			return newServiceRequest(sr)
		}),
		meta: map[string]any{
			"page":  p.Page,
			"size":  p.Size,
			"total": p.Total,
			"pages": pages,
		},
	}
}

func (p pagedList) MarshalJSON() ([]byte, error) { return json.Marshal(p.items) }

func (pagedList) Message() string { return "Service requests retrieved successfully" }

func (p pagedList) Meta() map[string]any { return p.meta }
