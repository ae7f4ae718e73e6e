package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"shomiti-fund/internal/adapters/persistence/models"
)

// NotificationService posts fund events to an external webhook (the
// surrounding system forwards them as email/WhatsApp). Delivery is
// best-effort and never fails the business operation that triggered it.
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	return &NotificationService{
		webhookURL: url,
		enabled:    url != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

type notifyPayload struct {
	Event    string  `json:"event"`
	MemberID string  `json:"member_id,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Status   string  `json:"status,omitempty"`
	Message  string  `json:"message"`
}

func (s *NotificationService) send(payload notifyPayload) {
	if !s.enabled {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️ Notification delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()
}

// NotifyLoanDecision notifies a member about a loan approval/rejection
func (s *NotificationService) NotifyLoanDecision(loan *models.LoanApplication) {
	amount := loan.AmountRequested
	if loan.AmountApproved != nil {
		amount = *loan.AmountApproved
	}
	s.send(notifyPayload{
		Event:    "loan_decision",
		MemberID: loan.MemberID,
		Amount:   amount,
		Status:   loan.Status,
		Message:  fmt.Sprintf("Your loan application has been %s", loan.Status),
	})
}

// NotifyDepositApproved notifies a member about a verified deposit
func (s *NotificationService) NotifyDepositApproved(contribution *models.Contribution) {
	s.send(notifyPayload{
		Event:    "deposit_reviewed",
		MemberID: contribution.MemberID,
		Amount:   contribution.Amount,
		Status:   contribution.Status,
		Message:  fmt.Sprintf("Your deposit of %.2f has been %s", contribution.Amount, contribution.Status),
	})
}

// NotifyDistribution announces a completed profit distribution
func (s *NotificationService) NotifyDistribution(dist *models.ProfitDistribution, memberCount int) {
	s.send(notifyPayload{
		Event:   "profit_distributed",
		Amount:  dist.TotalProfit,
		Message: fmt.Sprintf("Profit of %.2f for %s distributed to %d members", dist.TotalProfit, dist.Period, memberCount),
	})
}

// NotifyMemberApproval notifies a signup about the approval decision
func (s *NotificationService) NotifyMemberApproval(member *models.Member) {
	s.send(notifyPayload{
		Event:    "member_reviewed",
		MemberID: member.ID,
		Status:   member.ApprovalStatus,
		Message:  fmt.Sprintf("Your membership has been %s", member.ApprovalStatus),
	})
}
