package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name         string
		accountID    int64
		amount       float64
		txType       string
		balanceAfter float64
		description  string
		status       string
		wantErr      error
	}{
		{name: "deposit", accountID: 1, amount: 100, txType: "deposit", balanceAfter: 500, description: "Test deposit"},
		{name: "withdrawal", accountID: 1, amount: 50, txType: "withdrawal", balanceAfter: 450},
		{name: "transfer pending", accountID: 7, amount: 0, txType: "transfer", balanceAfter: 0, status: "pending"},
		{name: "max account id", accountID: math.MaxInt32, amount: 1, txType: "deposit", balanceAfter: 1},
		{name: "zero account id", accountID: 0, amount: 1, txType: "deposit", wantErr: ErrInvalidAccountID},
		{name: "account id past int32", accountID: math.MaxInt32 + 1, amount: 1, txType: "deposit", wantErr: ErrInvalidAccountID},
		{name: "unknown type", accountID: 1, amount: 1, txType: "refund", wantErr: ErrInvalidType},
		{name: "negative amount", accountID: 1, amount: -1, txType: "deposit", wantErr: ErrInvalidAmount},
		{name: "NaN amount", accountID: 1, amount: math.NaN(), txType: "deposit", wantErr: ErrInvalidAmount},
		{name: "infinite amount", accountID: 1, amount: math.Inf(1), txType: "deposit", wantErr: ErrInvalidAmount},
		{name: "negative infinite amount", accountID: 1, amount: math.Inf(-1), txType: "deposit", wantErr: ErrInvalidAmount},
		{name: "NaN balance after", accountID: 1, amount: 1, txType: "deposit", balanceAfter: math.NaN(), wantErr: ErrInvalidBalanceAfter},
		{name: "description too long", accountID: 1, amount: 1, txType: "deposit", description: strings.Repeat("x", 201), wantErr: ErrInvalidDescription},
		{name: "legacy status spelling", accountID: 1, amount: 1, txType: "deposit", status: "complete", wantErr: ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.accountID, tt.amount, tt.txType, tt.balanceAfter, tt.description, tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.AccountID != tt.accountID || tx.Amount != tt.amount || tx.Type != tt.txType || tx.BalanceAfter != tt.balanceAfter {
				t.Errorf("fields not echoed: %+v", tx)
			}
			if tx.Timestamp.IsZero() {
				t.Error("expected timestamp to be set")
			}
			wantStatus := tt.status
			if wantStatus == "" {
				wantStatus = StatusCompleted
			}
			if tx.Status != wantStatus {
				t.Errorf("expected status %q, got %q", wantStatus, tx.Status)
			}
		})
	}
}

func TestInvalidTypeAlwaysFails(t *testing.T) {
	for _, txType := range []string{"", "Deposit", "refund", "payment"} {
		for _, amount := range []float64{0, 1, 1e6} {
			if _, err := NewTransaction(1, amount, txType, 0, "", ""); !errors.Is(err, ErrInvalidType) {
				t.Errorf("type %q amount %v: expected ErrInvalidType, got %v", txType, amount, err)
			}
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if id, err := ParseUserID(float64(3)); err != nil || id != 3 {
		t.Errorf("ParseUserID(3) = %d, %v", id, err)
	}
	for _, bad := range []any{"abcd", 1.5, float64(-1), nil, true} {
		if _, err := ParseUserID(bad); !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("ParseUserID(%v): expected ErrInvalidUserID, got %v", bad, err)
		}
	}

	if id, err := ParseAccountID(json.Number("42")); err != nil || id != 42 {
		t.Errorf("ParseAccountID(42) = %d, %v", id, err)
	}
	if _, err := ParseAccountID(float64(math.MaxInt32) + 1); !errors.Is(err, ErrInvalidAccountID) {
		t.Errorf("expected ErrInvalidAccountID past int32, got %v", err)
	}

	if _, err := ParseAmount("100"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for string, got %v", err)
	}
	if f, err := ParseAmount(12.5); err != nil || f != 12.5 {
		t.Errorf("ParseAmount(12.5) = %v, %v", f, err)
	}

	if b, err := ParseOptionalBalance(nil); err != nil || b != nil {
		t.Errorf("ParseOptionalBalance(nil) = %v, %v", b, err)
	}
	if _, err := ParseOptionalBalance("lots"); !errors.Is(err, ErrInvalidBalance) {
		t.Errorf("expected ErrInvalidBalance, got %v", err)
	}

	if _, err := ParseBalanceAfter(nil); !errors.Is(err, ErrInvalidBalanceAfter) {
		t.Errorf("expected ErrInvalidBalanceAfter for missing value, got %v", err)
	}
}
