package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledger/internal/adapter/http/dto"
	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
)

const testAccountID = "0190f1c2-7a3e-7b4d-9c1e-2f3a4b5c6d7e"

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:        testAccountID,
		Name:      "cash",
		Direction: domain.DirectionDebit,
	}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		ID:        testAccountID,
		Name:      "cash",
		Direction: "debit",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.ID != testAccountID || captured.Name != "cash" || captured.Direction != domain.DirectionDebit {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != testAccountID || resp.Balance != "0.00" || resp.Direction != "debit" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidPayload(t *testing.T) {
	bodies := []string{
		"{invalid json",
		`{"name":"cash"}`,
		`{"name":"cash","direction":"sideways"}`,
		`{"id":"not-a-uuid","name":"cash","direction":"debit"}`,
		`{"name":"cash","direction":"debit","currency":"USD"}`,
	}

	for _, body := range bodies {
		handler := NewAccountHandler(&accountServiceStub{
			createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
				t.Fatal("CreateAccount should not be called for invalid payload")
				return nil, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAccountHandler_Create_ServiceError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, errors.New("db error")
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "test", Direction: "credit"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	account := &domain.Account{ID: testAccountID, Name: "test", Direction: domain.DirectionCredit, Balance: 1045}
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != testAccountID {
				t.Fatalf("expected id %s, got %s", testAccountID, id)
			}
			return account, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/"+testAccountID, nil)
	req = setChiURLParam(req, "id", testAccountID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Balance != "10.45" {
		t.Fatalf("expected balance 10.45, got %s", resp.Balance)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/"+testAccountID, nil)
	req = setChiURLParam(req, "id", testAccountID)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_BadID(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			t.Fatal("GetAccount should not be called for a malformed id")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
