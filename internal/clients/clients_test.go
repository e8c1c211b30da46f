package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserClientGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/financeManagement/userById", r.URL.Path)
		switch r.URL.Query().Get("userId") {
		case "1":
			w.Write([]byte(`{"userId":1,"name":"Alice","email":"alice@example.com"}`))
		case "2":
			w.Write([]byte(`{"userId":2,"name":"No Mail"}`))
		default:
			http.Error(w, "User does not exist", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL, NewHTTPClient(time.Second))

	u, err := c.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = c.GetUser(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, MsgUserNotFound, err.Error())
	assert.True(t, apperr.IsNotFound(err))

	_, err = c.GetUser(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, MsgUserNotFound, err.Error())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestUserClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewUserClient(url, NewHTTPClient(time.Second)).GetUser(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestBudgetClientGetBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/financeManagement/userCategoryBudget", r.URL.Path)
		q := r.URL.Query()
		if q.Get("userId") == "1" && q.Get("category") == "Food" {
			w.Write([]byte(`{"id":7,"userId":1,"category":"food","amount":1000}`))
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewBudgetClient(srv.URL, NewHTTPClient(time.Second))

	b, err := c.GetBudget(context.Background(), 1, "Food")
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, 1000.0, b.Amount)

	_, err = c.GetBudget(context.Background(), 1, "Travel")
	require.Error(t, err)
	assert.Equal(t, MsgBudgetNotFound, err.Error())
}

func TestNotificationClientNotify(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/financeManagement/notifyUser", r.URL.Path)
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte("Dear User"))
	}))
	defer srv.Close()

	c := NewNotificationClient(srv.URL, NewHTTPClient(time.Second))
	text, err := c.Notify(context.Background(), models.BudgetExceeded{
		Category:    "Food",
		Cap:         1000,
		Description: "Dinner & drinks",
		Total:       1200.5,
		Email:       "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear User", text)
	assert.Equal(t, map[string]string{
		"budgetCategory":     "Food",
		"budgetAmount":       "1000",
		"expenseDescription": "Dinner & drinks",
		"expenseAmount":      "1200.5",
		"userEmail":          "alice@example.com",
	}, got)
}

func TestNotificationClientFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewNotificationClient(srv.URL, NewHTTPClient(time.Second)).Notify(context.Background(), models.BudgetExceeded{})
	require.Error(t, err)
	assert.Equal(t, MsgNotificationFailed, err.Error())
	assert.True(t, apperr.IsDomain(err))
}
