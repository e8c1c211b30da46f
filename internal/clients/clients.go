// Package clients calls the collaborator services over REST. Every failure,
// whether the collaborator is down or answered with an error status, is
// reported as an apperr condition that keeps the original cause.
package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"finance-manager/internal/apperr"
	"finance-manager/internal/httpapi"
	"finance-manager/internal/models"
)

// Fixed messages of the conditions the clients report.
const (
	MsgUserNotFound       = "user not found"
	MsgBudgetNotFound     = "budget not found"
	MsgNotificationFailed = "notification failed"
)

// StatusError is returned when a collaborator answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// NewHTTPClient returns the http.Client used for inter-service calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type base struct {
	baseURL string
	client  *http.Client
}

// get performs a GET on path with query and returns the response body.
func (b base) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}
	if id := httpapi.RequestID(ctx); id != "" {
		req.Header.Set(httpapi.RequestIDHeader, id)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// UserClient resolves users through the user service.
type UserClient struct{ base }

// NewUserClient creates a UserClient for the user service at baseURL.
func NewUserClient(baseURL string, c *http.Client) *UserClient {
	return &UserClient{base{baseURL: baseURL, client: c}}
}

// GetUser fetches a user. A user without an email counts as missing.
func (c *UserClient) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	body, err := c.get(ctx, "/financeManagement/userById", url.Values{
		"userId": {strconv.FormatInt(userID, 10)},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, err, MsgUserNotFound)
	}

	var u models.User
	if err := httpapi.DecodeJSON(bytes.NewReader(body), &u); err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, err, MsgUserNotFound)
	}
	if u.Email == "" {
		return nil, apperr.NotFound(MsgUserNotFound)
	}
	return &u, nil
}

// BudgetClient looks up budget caps through the budget service.
type BudgetClient struct{ base }

// NewBudgetClient creates a BudgetClient for the budget service at baseURL.
func NewBudgetClient(baseURL string, c *http.Client) *BudgetClient {
	return &BudgetClient{base{baseURL: baseURL, client: c}}
}

// GetBudget fetches the budget of a user for a category.
func (c *BudgetClient) GetBudget(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	body, err := c.get(ctx, "/financeManagement/userCategoryBudget", url.Values{
		"userId":   {strconv.FormatInt(userID, 10)},
		"category": {category},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, err, MsgBudgetNotFound)
	}

	var b models.Budget
	if err := httpapi.DecodeJSON(bytes.NewReader(body), &b); err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, err, MsgBudgetNotFound)
	}
	return &b, nil
}

// NotificationClient asks the notification service to notify a user.
type NotificationClient struct{ base }

// NewNotificationClient creates a NotificationClient for the notification
// service at baseURL.
func NewNotificationClient(baseURL string, c *http.Client) *NotificationClient {
	return &NotificationClient{base{baseURL: baseURL, client: c}}
}

// Notify sends ev to the notification service and returns the rendered text.
func (c *NotificationClient) Notify(ctx context.Context, ev models.BudgetExceeded) (string, error) {
	body, err := c.get(ctx, "/financeManagement/notifyUser", url.Values{
		"budgetCategory":     {ev.Category},
		"budgetAmount":       {strconv.FormatFloat(ev.Cap, 'f', -1, 64)},
		"expenseDescription": {ev.Description},
		"expenseAmount":      {strconv.FormatFloat(ev.Total, 'f', -1, 64)},
		"userEmail":          {ev.Email},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalid, err, MsgNotificationFailed)
	}
	return string(body), nil
}
