package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"financeos/internal/models"
	"financeos/internal/pagination"
	"financeos/internal/testutil"
)

func TestAccountService_CreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAccountService(db, testutil.NewTestEncryptor(t))

	t.Run("encrypts last4 at rest and decrypts on read", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		opening := decimal.RequireFromString("1000")

		account, err := svc.CreateAccount(user.ID, AccountInput{
			Name:           "Checking",
			Type:           models.AccountTypeBank,
			OpeningBalance: &opening,
			Last4:          "4242",
		})
		testutil.AssertNoError(t, err)
		if account.Last4 != "4242" {
			t.Errorf("expected decrypted last4 in response, got %q", account.Last4)
		}

		// The stored value must not be the plaintext.
		var raw models.Account
		if err := db.Where("id = ?", account.ID).First(&raw).Error; err != nil {
			t.Fatalf("failed to load raw account: %v", err)
		}
		if raw.Last4 == "4242" || raw.Last4 == "" {
			t.Errorf("expected ciphertext at rest, got %q", raw.Last4)
		}

		fetched, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if fetched.Last4 != "4242" {
			t.Errorf("expected decrypted last4 on read, got %q", fetched.Last4)
		}
	})

	t.Run("statement password is stored encrypted and never returned", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		limit := decimal.RequireFromString("5000")

		account, err := svc.CreateAccount(user.ID, AccountInput{
			Name:              "Visa",
			Type:              models.AccountTypeCreditCard,
			CreditLimit:       &limit,
			StatementPassword: "hunter2",
		})
		testutil.AssertNoError(t, err)

		var raw models.Account
		if err := db.Where("id = ?", account.ID).First(&raw).Error; err != nil {
			t.Fatalf("failed to load raw account: %v", err)
		}
		if raw.StatementPassword == "hunter2" || raw.StatementPassword == "" {
			t.Errorf("expected encrypted statement password at rest, got %q", raw.StatementPassword)
		}
	})

	t.Run("clears fields that do not match the account type", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		price := decimal.RequireFromString("99.5")

		account, err := svc.CreateAccount(user.ID, AccountInput{
			Name:            "Index Fund",
			Type:            models.AccountTypeMutualFund,
			InstrumentCode:  "VTSAX",
			LastTradedPrice: &price,
			Last4:           "4242",
		})
		testutil.AssertNoError(t, err)
		if account.Last4 != "" {
			t.Errorf("expected last4 to be dropped for a fund account, got %q", account.Last4)
		}
		if account.InstrumentCode != "VTSAX" {
			t.Errorf("expected instrument code VTSAX, got %q", account.InstrumentCode)
		}
	})
}

func TestAccountService_UpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAccountService(db, testutil.NewTestEncryptor(t))

	t.Run("rejects a type change", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestBankAccount(t, db, user.ID)

		_, err := svc.UpdateAccount(user.ID, account.ID, AccountInput{
			Name: "Renamed",
			Type: models.AccountTypeStock,
		})
		testutil.AssertAppError(t, err, "ACCOUNT_TYPE_CHANGE")
	})

	t.Run("updates the last traded price on a stock account", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestStockAccount(t, db, user.ID)
		price := decimal.RequireFromString("151.25")

		updated, err := svc.UpdateAccount(user.ID, account.ID, AccountInput{
			Name:            account.Name,
			Type:            models.AccountTypeStock,
			InstrumentCode:  account.InstrumentCode,
			LastTradedPrice: &price,
		})
		testutil.AssertNoError(t, err)
		if updated.LastTradedPrice == nil {
			t.Fatal("expected a last traded price")
		}
		testutil.AssertDecimalEqual(t, *updated.LastTradedPrice, "151.25")
	})

	t.Run("returns not found for another user's account", func(t *testing.T) {
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestBankAccount(t, db, owner.ID)

		_, err := svc.UpdateAccount(intruder.ID, account.ID, AccountInput{
			Name: "Stolen",
			Type: models.AccountTypeBank,
		})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestAccountService_DeleteAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAccountService(db, testutil.NewTestEncryptor(t))

	t.Run("soft-deletes and hides the account", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestBankAccount(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteAccount(user.ID, account.ID))

		_, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

		resp, err := svc.GetUserAccounts(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 0 {
			t.Errorf("expected no visible accounts, got %d", resp.TotalItems)
		}
	})

	t.Run("returns not found for an unknown ID", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteAccount(user.ID, "0190a000-0000-7000-8000-00000000dead")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
