package treasury

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vaultorx/admin-backend/internal/models"
)

func seedDeposit(ds *mockDepositStore, lg *mockLedger, balance, amount, hash string) *models.DepositRequest {
	userID := uuid.New()
	lg.balances[userID] = dec(balance)
	d := &models.DepositRequest{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          dec(amount),
		Currency:        models.DefaultCurrency,
		TransactionHash: hash,
		Status:          models.DepositStatusPending,
	}
	ds.requests[d.ID] = d
	return d
}

func TestApproveDeposit_CompletedCreditsAndConfirmsTransaction(t *testing.T) {
	svc, pool, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")

	result, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusCompleted)
	if err != nil {
		t.Fatalf("ApproveDeposit: %v", err)
	}

	if got := lg.balances[d.UserID]; !got.Equal(dec("60")) {
		t.Errorf("balance = %s, want 60", got)
	}
	if result.NewBalance == nil || !result.NewBalance.Equal(dec("60")) {
		t.Errorf("result.NewBalance = %v, want 60", result.NewBalance)
	}
	if lg.markedHashes["0xabc"] != models.TransactionStatusCompleted {
		t.Errorf("transaction %q marked %q, want completed", "0xabc", lg.markedHashes["0xabc"])
	}
	if ds.requests[d.ID].Status != models.DepositStatusCompleted {
		t.Errorf("status = %q, want completed", ds.requests[d.ID].Status)
	}
	if !pool.lastTx.committed {
		t.Error("transaction was not committed")
	}
}

func TestApproveDeposit_CompletedIsIdempotent(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")

	if _, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusCompleted); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	result, err := svc.ApproveDeposit(context.Background(), d.ID, models.DepositStatusCompleted, models.DepositStatusCompleted)
	if err != nil {
		t.Fatalf("second transition: %v", err)
	}

	if got := lg.balances[d.UserID]; !got.Equal(dec("60")) {
		t.Errorf("balance = %s, want 60 after re-entry", got)
	}
	if result.NewBalance != nil {
		t.Error("no-op transition should not report a new balance")
	}
}

// A second admin completing from a stale approved snapshot must not credit
// the account a second time; the locked row already reads completed.
func TestApproveDeposit_StaleSnapshotCannotCreditTwice(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")

	if _, err := svc.ApproveDeposit(context.Background(), d.ID, models.DepositStatusApproved, models.DepositStatusCompleted); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	result, err := svc.ApproveDeposit(context.Background(), d.ID, models.DepositStatusApproved, models.DepositStatusCompleted)
	if err != nil {
		t.Fatalf("second transition: %v", err)
	}

	if got := lg.balances[d.UserID]; !got.Equal(dec("60")) {
		t.Errorf("balance = %s, want 60 after racing completion", got)
	}
	if result.NewBalance != nil {
		t.Error("racing completion should not report a new balance")
	}
}

func TestApproveDeposit_CompletedIsTerminal(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")

	if _, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	for _, next := range []string{models.DepositStatusRejected, models.DepositStatusApproved, models.DepositStatusPending} {
		if _, err := svc.ApproveDeposit(context.Background(), d.ID, models.DepositStatusApproved, next); !errors.Is(err, ErrInvalidTransitionPayload) {
			t.Errorf("completed -> %s: err = %v, want ErrInvalidTransitionPayload", next, err)
		}
	}
	if ds.requests[d.ID].Status != models.DepositStatusCompleted {
		t.Errorf("status = %q, want completed unchanged", ds.requests[d.ID].Status)
	}
	if got := lg.balances[d.UserID]; !got.Equal(dec("60")) {
		t.Errorf("balance = %s, want 60 unchanged", got)
	}
	if lg.markedHashes["0xabc"] != models.TransactionStatusCompleted {
		t.Errorf("transaction %q marked %q, want completed untouched", "0xabc", lg.markedHashes["0xabc"])
	}
}

func TestApproveDeposit_ApprovedIsTimestampOnly(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")

	result, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusApproved)
	if err != nil {
		t.Fatalf("ApproveDeposit: %v", err)
	}
	if got := lg.balances[d.UserID]; !got.Equal(dec("10")) {
		t.Errorf("balance = %s, want 10 unchanged", got)
	}
	if ds.requests[d.ID].Status != models.DepositStatusApproved {
		t.Errorf("status = %q, want approved", ds.requests[d.ID].Status)
	}
	if result.NewBalance != nil {
		t.Error("approved transition should not report a new balance")
	}
}

func TestApproveDeposit_RejectedMarksTransactionFailed(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")
	d.Status = models.DepositStatusApproved

	if _, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusRejected); err != nil {
		t.Fatalf("ApproveDeposit: %v", err)
	}
	if lg.markedHashes["0xabc"] != models.TransactionStatusFailed {
		t.Errorf("transaction marked %q, want failed", lg.markedHashes["0xabc"])
	}
	if got := lg.balances[d.UserID]; !got.Equal(dec("10")) {
		t.Errorf("balance = %s, want 10 unchanged", got)
	}
	if ds.requests[d.ID].Status != models.DepositStatusRejected {
		t.Errorf("status = %q, want rejected", ds.requests[d.ID].Status)
	}
}

func TestApproveDeposit_RejectAfterCompletedForbidden(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "10", "50", "0xabc")
	d.Status = models.DepositStatusCompleted

	_, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusRejected)
	if !errors.Is(err, ErrInvalidTransitionPayload) {
		t.Fatalf("err = %v, want ErrInvalidTransitionPayload", err)
	}
}

func TestApproveDeposit_CompletedRequiresHashAndPositiveAmount(t *testing.T) {
	svc, _, _, ds, lg := newTestService()

	noHash := seedDeposit(ds, lg, "10", "50", "")
	if _, err := svc.ApproveDeposit(context.Background(), noHash.ID, noHash.Status, models.DepositStatusCompleted); !errors.Is(err, ErrInvalidTransitionPayload) {
		t.Errorf("missing hash: err = %v, want ErrInvalidTransitionPayload", err)
	}

	zeroAmount := seedDeposit(ds, lg, "10", "0", "0xdef")
	if _, err := svc.ApproveDeposit(context.Background(), zeroAmount.ID, zeroAmount.Status, models.DepositStatusCompleted); !errors.Is(err, ErrInvalidTransitionPayload) {
		t.Errorf("zero amount: err = %v, want ErrInvalidTransitionPayload", err)
	}
}

func TestCreateDeposit_AppendsPendingTransaction(t *testing.T) {
	svc, _, _, ds, lg := newTestService()
	userID := uuid.New()
	lg.balances[userID] = dec("0")

	d, err := svc.CreateDeposit(context.Background(), userID, dec("25"), "", "0xfeed")
	if err != nil {
		t.Fatalf("CreateDeposit: %v", err)
	}

	if d.Status != models.DepositStatusPending {
		t.Errorf("status = %q, want pending", d.Status)
	}
	if d.Currency != models.DefaultCurrency {
		t.Errorf("currency = %q, want %q", d.Currency, models.DefaultCurrency)
	}
	if got := lg.balances[userID]; !got.Equal(dec("0")) {
		t.Errorf("balance = %s, creation must not credit", got)
	}

	if len(lg.appended) != 1 {
		t.Fatalf("appended %d transactions, want 1", len(lg.appended))
	}
	tr := lg.appended[0]
	if tr.Status != models.TransactionStatusPending {
		t.Errorf("transaction status = %q, want pending", tr.Status)
	}
	if tr.TransactionHash == nil || *tr.TransactionHash != "0xfeed" {
		t.Errorf("transaction hash = %v, want 0xfeed", tr.TransactionHash)
	}
	if tr.Description != "25 WETH Deposit" {
		t.Errorf("description = %q, want 25 WETH Deposit", tr.Description)
	}
	if tr.FromWallet != "External Source" || tr.ToWallet != "Platform Wallet" {
		t.Errorf("wallet labels = %q -> %q", tr.FromWallet, tr.ToWallet)
	}

	if _, ok := ds.requests[d.ID]; !ok {
		t.Error("deposit request was not persisted")
	}
}

func TestCreateDeposit_InvalidInput(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	userID := uuid.New()

	if _, err := svc.CreateDeposit(context.Background(), userID, dec("0"), "WETH", "0xabc"); !errors.Is(err, ErrInvalidTransitionPayload) {
		t.Errorf("zero amount: err = %v, want ErrInvalidTransitionPayload", err)
	}
	if _, err := svc.CreateDeposit(context.Background(), userID, dec("10"), "WETH", ""); !errors.Is(err, ErrInvalidTransitionPayload) {
		t.Errorf("missing hash: err = %v, want ErrInvalidTransitionPayload", err)
	}
}

func TestDepositThenWithdrawRoundTrip(t *testing.T) {
	svc, _, ws, ds, lg := newTestService()
	d := seedDeposit(ds, lg, "0", "100", "0xroundtrip")

	if _, err := svc.ApproveDeposit(context.Background(), d.ID, d.Status, models.DepositStatusCompleted); err != nil {
		t.Fatalf("deposit completion: %v", err)
	}

	w := &models.WithdrawalRequest{
		ID:            uuid.New(),
		UserID:        d.UserID,
		Amount:        dec("40"),
		WithdrawalFee: dec("2"),
		Status:        models.WithdrawalStatusVerified,
	}
	ws.requests[w.ID] = w

	result, err := svc.ApproveWithdrawal(context.Background(), w.ID, w.Status, models.WithdrawalStatusCompleted)
	if err != nil {
		t.Fatalf("withdrawal completion: %v", err)
	}
	if got := lg.balances[d.UserID]; !got.Equal(dec("58")) {
		t.Errorf("balance = %s, want 58", got)
	}
	if result.NewBalance == nil || !result.NewBalance.Equal(dec("58")) {
		t.Errorf("result.NewBalance = %v, want 58", result.NewBalance)
	}
}
