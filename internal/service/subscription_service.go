package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// ErrPaymentDeclined is returned when the gateway answers but refuses the
// purchase. State is left unchanged.
var ErrPaymentDeclined = errors.New("payment declined")

const trialLength = 7 * 24 * time.Hour

// Plan lengths by plan id.
var planPeriods = map[string]time.Duration{
	"monthly": 30 * 24 * time.Hour,
	"yearly":  365 * 24 * time.Hour,
}

// Purchaser completes a checkout with the external payment gateway. It only
// reports success or failure; receipts and webhooks are the gateway's problem.
type Purchaser interface {
	Purchase(ctx context.Context, userID uint, planID string) (bool, error)
}

// PaymentGateway is the HTTP implementation of Purchaser.
type PaymentGateway struct {
	baseURL string
	client  *http.Client
}

func NewPaymentGateway(baseURL string) *PaymentGateway {
	return &PaymentGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *PaymentGateway) Purchase(ctx context.Context, userID uint, planID string) (bool, error) {
	payload, err := json.Marshal(map[string]any{"user_id": userID, "plan_id": planID})
	if err != nil {
		return false, fmt.Errorf("encode purchase: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/purchase", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build purchase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment gateway: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode purchase response: %w", err)
	}
	return result.OK, nil
}

// SubscriptionService owns the per-user billing record the pro gate reads.
type SubscriptionService struct {
	repo    *repository.SubscriptionRepository
	gateway Purchaser
	events  EventPublisher
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, gateway Purchaser, events EventPublisher) *SubscriptionService {
	return &SubscriptionService{repo: repo, gateway: gateway, events: events}
}

// Status returns the subscription row, lazily expiring a lapsed period.
func (s *SubscriptionService) Status(ctx context.Context, user *model.User) (*model.Subscription, error) {
	sub, err := s.repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if sub.IsPro && sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(time.Now()) {
		sub.IsPro = false
		sub.Status = model.SubscriptionExpired
		if err := s.repo.Save(ctx, sub); err != nil {
			return nil, err
		}
		s.publish(user.ID, sub)
	}
	return sub, nil
}

// Purchase runs a checkout and, on success, flips the subscription row.
func (s *SubscriptionService) Purchase(ctx context.Context, user *model.User, planID string) (*model.Subscription, error) {
	period, ok := planPeriods[planID]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", planID)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	approved, err := s.gateway.Purchase(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, ErrPaymentDeclined
	}

	sub, err := s.repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	end := time.Now().Add(period)
	sub.IsPro = true
	sub.Tier = planID
	sub.Status = model.SubscriptionActive
	sub.CurrentPeriodEnd = &end
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.publish(user.ID, sub)
	return sub, nil
}

// StartTrial begins the one-time free trial.
func (s *SubscriptionService) StartTrial(ctx context.Context, user *model.User) (*model.Subscription, error) {
	sub, err := s.repo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if sub.TrialStartDate != nil {
		return nil, fmt.Errorf("trial already used")
	}
	if sub.IsPro {
		return nil, fmt.Errorf("subscription already active")
	}

	now := time.Now()
	end := now.Add(trialLength)
	sub.IsPro = true
	sub.Status = model.SubscriptionTrial
	sub.TrialStartDate = &now
	sub.CurrentPeriodEnd = &end
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.publish(user.ID, sub)
	return sub, nil
}

func (s *SubscriptionService) publish(userID uint, sub *model.Subscription) {
	if s.events != nil {
		s.events.Publish(userID, "subscription.updated", sub)
	}
}
