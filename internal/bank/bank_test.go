package bank

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/storage/jsonfile"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 123456000, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *jsonfile.Store) {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "bank_users.json"))
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, auth.SHA256Hasher{}, opts...), store
}

func mustSignup(t *testing.T, s *Service, name, password string, typ models.AccountType) {
	t.Helper()
	if err := s.Signup(context.Background(), name, password, typ); err != nil {
		t.Fatalf("Signup(%s) err=%v", name, err)
	}
}

func mustCredit(t *testing.T, s *Service, name string, amount int64) {
	t.Helper()
	if _, err := s.Credit(context.Background(), name, decimal.NewFromInt(amount)); err != nil {
		t.Fatalf("Credit(%s) err=%v", name, err)
	}
}

func balanceOf(t *testing.T, s *Service, name string) decimal.Decimal {
	t.Helper()
	user, err := s.Account(context.Background(), name)
	if err != nil {
		t.Fatalf("Account(%s) err=%v", name, err)
	}
	return user.Balance
}

func TestSignupCreatesEmptyAccount(t *testing.T) {
	s, store := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	alice := doc["alice"]
	if alice == nil {
		t.Fatal("alice not persisted")
	}
	want, _ := auth.SHA256Hasher{}.Digest("pw1")
	if alice.PasswordDigest != want {
		t.Fatalf("digest = %s, want %s", alice.PasswordDigest, want)
	}
	if !alice.Balance.IsZero() || len(alice.Transactions) != 0 || alice.AccountType != models.Saving {
		t.Fatalf("alice = %+v", alice)
	}
}

func TestSignupRejects(t *testing.T) {
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)

	cases := []struct {
		name     string
		username string
		password string
		typ      models.AccountType
		want     error
	}{
		{"duplicate", "alice", "other", models.Current, ErrDuplicateUser},
		{"empty username", " ", "pw", models.Saving, ErrInvalidInput},
		{"empty password", "bob", "", models.Saving, ErrInvalidInput},
		{"bad type", "bob", "pw", models.AccountType("Gold"), ErrInvalidAccountType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Signup(context.Background(), tc.username, tc.password, tc.typ)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestUsernamesAreCaseSensitive(t *testing.T) {
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "Alice", "pw2", models.Current)
}

func TestTransferInsufficientFundsScenario(t *testing.T) {
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "bob", "pw2", models.Current)

	if got := balanceOf(t, s, "alice"); !got.IsZero() {
		t.Fatalf("alice balance = %s, want 0", got)
	}
	_, err := s.Transfer(context.Background(), "alice", "bob", decimal.NewFromInt(10))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v, want ErrInsufficientFunds", err)
	}
	if !balanceOf(t, s, "alice").IsZero() || !balanceOf(t, s, "bob").IsZero() {
		t.Fatal("balances changed after failed transfer")
	}
}

func TestTransferSuccessScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "bob", "pw2", models.Current)
	mustCredit(t, s, "alice", 50)

	sent, err := s.Transfer(ctx, "alice", "bob", decimal.NewFromInt(20))
	if err != nil {
		t.Fatalf("Transfer err=%v", err)
	}
	if sent.Kind != models.Sent || sent.Counterparty != "bob" {
		t.Fatalf("sent = %+v", sent)
	}

	alice, _ := s.Account(ctx, "alice")
	bob, _ := s.Account(ctx, "bob")
	if !alice.Balance.Equal(decimal.NewFromInt(30)) || !bob.Balance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("balances alice=%s bob=%s", alice.Balance, bob.Balance)
	}
	if len(alice.Transactions) != 1 || len(bob.Transactions) != 1 {
		t.Fatalf("logs alice=%d bob=%d", len(alice.Transactions), len(bob.Transactions))
	}
	out, in := alice.Transactions[0], bob.Transactions[0]
	if out.Kind != models.Sent || out.Counterparty != "bob" || !out.Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("alice entry = %+v", out)
	}
	if in.Kind != models.Received || in.Counterparty != "alice" || !in.Amount.Equal(out.Amount) {
		t.Fatalf("bob entry = %+v", in)
	}
	if in.Time != out.Time || out.Time != "2026-10-16 09:30:00.123456" {
		t.Fatalf("timestamps sent=%q received=%q", out.Time, in.Time)
	}
}

func TestTransferConservesTotal(t *testing.T) {
	amounts := []string{"0.01", "1", "12.5", "99.99", "100"}
	for _, a := range amounts {
		t.Run(a, func(t *testing.T) {
			s, _ := newTestService(t)
			mustSignup(t, s, "alice", "pw1", models.Saving)
			mustSignup(t, s, "bob", "pw2", models.Current)
			mustCredit(t, s, "alice", 100)
			mustCredit(t, s, "bob", 7)

			amount := decimal.RequireFromString(a)
			beforeA, beforeB := balanceOf(t, s, "alice"), balanceOf(t, s, "bob")
			if _, err := s.Transfer(context.Background(), "alice", "bob", amount); err != nil {
				t.Fatalf("Transfer err=%v", err)
			}
			afterA, afterB := balanceOf(t, s, "alice"), balanceOf(t, s, "bob")
			if !afterA.Equal(beforeA.Sub(amount)) || !afterB.Equal(beforeB.Add(amount)) {
				t.Fatalf("alice %s->%s bob %s->%s", beforeA, afterA, beforeB, afterB)
			}
			if !afterA.Add(afterB).Equal(beforeA.Add(beforeB)) {
				t.Fatal("total not conserved")
			}
		})
	}
}

func TestTransferPartyNotFound(t *testing.T) {
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustCredit(t, s, "alice", 50)

	for _, pair := range [][2]string{{"alice", "ghost"}, {"ghost", "alice"}} {
		_, err := s.Transfer(context.Background(), pair[0], pair[1], decimal.NewFromInt(5))
		if !errors.Is(err, ErrPartyNotFound) {
			t.Fatalf("%v: err=%v, want ErrPartyNotFound", pair, err)
		}
	}
	if got := balanceOf(t, s, "alice"); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("alice balance = %s", got)
	}
}

func TestTransferZeroAmountLogsPair(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "bob", "pw2", models.Current)

	if _, err := s.Transfer(ctx, "alice", "bob", decimal.Zero); err != nil {
		t.Fatalf("Transfer err=%v", err)
	}
	alice, _ := s.Account(ctx, "alice")
	bob, _ := s.Account(ctx, "bob")
	if !alice.Balance.IsZero() || !bob.Balance.IsZero() {
		t.Fatal("zero transfer moved money")
	}
	if len(alice.Transactions) != 1 || !alice.Transactions[0].Amount.IsZero() {
		t.Fatalf("alice log = %+v", alice.Transactions)
	}
	if len(bob.Transactions) != 1 || !bob.Transactions[0].Amount.IsZero() {
		t.Fatalf("bob log = %+v", bob.Transactions)
	}
}

func TestTransferRejectsSelfAndNegative(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "bob", "pw2", models.Current)
	mustCredit(t, s, "alice", 50)

	if _, err := s.Transfer(ctx, "alice", "alice", decimal.NewFromInt(5)); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("self transfer err=%v", err)
	}
	if _, err := s.Transfer(ctx, "alice", "bob", decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative transfer err=%v", err)
	}
	alice, _ := s.Account(ctx, "alice")
	if !alice.Balance.Equal(decimal.NewFromInt(50)) || len(alice.Transactions) != 0 {
		t.Fatalf("alice = %+v", alice)
	}
}

func TestConcurrentTransfersKeepTotal(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "bob", "pw2", models.Current)
	mustCredit(t, s, "alice", 30)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Transfer(ctx, "alice", "bob", decimal.NewFromInt(1))
			if err != nil && !errors.Is(err, ErrInsufficientFunds) {
				t.Errorf("Transfer err=%v", err)
			}
		}()
	}
	wg.Wait()

	alice, _ := s.Account(ctx, "alice")
	bob, _ := s.Account(ctx, "bob")
	if !alice.Balance.IsZero() || !bob.Balance.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("alice=%s bob=%s", alice.Balance, bob.Balance)
	}
	if len(alice.Transactions) != 30 || len(bob.Transactions) != 30 {
		t.Fatalf("logs alice=%d bob=%d", len(alice.Transactions), len(bob.Transactions))
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)

	before, _ := store.FindUser(ctx, "alice")
	if err := s.ChangePassword(ctx, "alice", "wrong", "pw3"); !errors.Is(err, ErrWrongCredential) {
		t.Fatalf("wrong current: err=%v", err)
	}
	after, _ := store.FindUser(ctx, "alice")
	if after.PasswordDigest != before.PasswordDigest {
		t.Fatal("digest changed after failed change")
	}

	if err := s.ChangePassword(ctx, "alice", "pw1", "pw3"); err != nil {
		t.Fatalf("ChangePassword err=%v", err)
	}
	if _, err := s.Authenticate(ctx, "alice", "pw3"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := s.Authenticate(ctx, "alice", "pw1"); !errors.Is(err, ErrWrongCredential) {
		t.Fatalf("login with old password: err=%v", err)
	}
	if err := s.ChangePassword(ctx, "ghost", "a", "b"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ghost: err=%v", err)
	}
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)

	if err := s.ResetPassword(ctx, "alice", "fresh"); err != nil {
		t.Fatalf("ResetPassword err=%v", err)
	}
	if _, err := s.Authenticate(ctx, "alice", "fresh"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
	if err := s.ResetPassword(ctx, "ghost", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ghost: err=%v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.Authenticate(context.Background(), "ghost", "pw"); !errors.Is(err, ErrWrongCredential) {
		t.Fatalf("err=%v, want ErrWrongCredential", err)
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	digest, _ := auth.SHA256Hasher{}.Digest("admin123")
	s, _ := newTestService(t, WithAdmin("admin", digest))

	if err := s.AuthenticateAdmin("admin", "admin123"); err != nil {
		t.Fatalf("admin login err=%v", err)
	}
	if err := s.AuthenticateAdmin("admin", "nope"); !errors.Is(err, ErrWrongCredential) {
		t.Fatalf("wrong password err=%v", err)
	}
	if err := s.AuthenticateAdmin("root", "admin123"); !errors.Is(err, ErrWrongCredential) {
		t.Fatalf("wrong username err=%v", err)
	}

	disabled, _ := newTestService(t)
	if err := disabled.AuthenticateAdmin("admin", ""); !errors.Is(err, ErrWrongCredential) {
		t.Fatalf("disabled admin err=%v", err)
	}
}

func TestCreditRejectsNonPositive(t *testing.T) {
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	if _, err := s.Credit(context.Background(), "alice", decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v", err)
	}
	if _, err := s.Credit(context.Background(), "ghost", decimal.NewFromInt(1)); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestHistoryOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustSignup(t, s, "alice", "pw1", models.Saving)
	mustSignup(t, s, "bob", "pw2", models.Current)
	mustCredit(t, s, "alice", 10)

	for _, amount := range []int64{1, 2, 3} {
		if _, err := s.Transfer(ctx, "alice", "bob", decimal.NewFromInt(amount)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Transfer(ctx, "bob", "alice", decimal.NewFromInt(4)); err != nil {
		t.Fatal(err)
	}
	history, err := s.History(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 4 {
		t.Fatalf("len = %d", len(history))
	}
	for i, want := range []int64{1, 2, 3} {
		if history[i].Kind != models.Sent || !history[i].Amount.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("entry %d = %+v", i, history[i])
		}
	}
	if history[3].Kind != models.Received || history[3].Counterparty != "bob" {
		t.Fatalf("last entry = %+v", history[3])
	}
	if _, err := s.History(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ghost err=%v", err)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(ErrInsufficientFunds); got != "Insufficient funds." {
		t.Fatalf("Message = %q", got)
	}
	wrapped := errors.Join(errors.New("context"), ErrDuplicateUser)
	if got := Message(wrapped); got != "Username already exists." {
		t.Fatalf("Message(wrapped) = %q", got)
	}
	if got := Message(errors.New("disk on fire")); got != "Something went wrong. Please try again." {
		t.Fatalf("Message(unknown) = %q", got)
	}
}
