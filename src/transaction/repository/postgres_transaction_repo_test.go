package repository

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	tokenRepo "github.com/MMN3003/bridgeswap/src/token/repository"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
	"github.com/google/uuid"
	"gorm.io/gorm/schema"
)

// applyColumns writes cols onto row the way an UPDATE would, resolving each
// key through the gorm schema so unknown columns fail the test.
func applyColumns(t *testing.T, row *Transaction, cols map[string]interface{}) {
	t.Helper()
	s, err := schema.Parse(&Transaction{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	rv := reflect.ValueOf(row).Elem()
	for name, v := range cols {
		field := s.LookUpField(name)
		if field == nil {
			t.Fatalf("no column %q on transactions", name)
		}
		if err := field.Set(context.Background(), rv, v); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
}

func TestPatchColumns_MatchesApply(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(5 * time.Minute)
	owner := "0xowner"
	oldHash := "0xold"
	completed := domain.StatusCompleted
	hash := "0xfeed"
	eta := created.Add(30 * time.Minute)

	tests := []struct {
		name  string
		patch domain.Patch
	}{
		{"every field", domain.Patch{Status: &completed, TxHash: &hash, EstimatedCompletion: &eta}},
		{"status only keeps hash", domain.Patch{Status: &completed}},
		{"empty touches updated_at", domain.Patch{}},
	}
	repo := &TransactionRepo{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := oldHash
			row := Transaction{
				ID:          uuid.New(),
				TrackerID:   "TXN-ABC123",
				UserAddress: &owner,
				FromToken:   tokenRepo.Token{Symbol: "ETH", Network: "ERC20"},
				ToToken:     tokenRepo.Token{Symbol: "USDT", Network: "BEP20"},
				FromAmount:  "1.5",
				ToAmount:    "3700",
				Status:      string(domain.StatusProcessing),
				TxHash:      &h,
				CreatedAt:   created,
				UpdatedAt:   created,
			}
			want := repo.toDomainTransaction(&row).Apply(tt.patch, now)

			applyColumns(t, &row, patchColumns(tt.patch, now))
			got := repo.toDomainTransaction(&row)

			if !reflect.DeepEqual(*got, want) {
				t.Errorf("stored row diverges from Apply:\n got %+v\nwant %+v", *got, want)
			}
		})
	}
}

func TestToDomainTransaction_OwnerFromUserAddress(t *testing.T) {
	owner := "0xowner"
	row := Transaction{ID: uuid.New(), TrackerID: "TXN-ABC123", UserAddress: &owner, Status: "pending"}
	got := (&TransactionRepo{}).toDomainTransaction(&row)
	if got.OwnerAddress == nil || *got.OwnerAddress != owner {
		t.Errorf("owner not mapped: %+v", got.OwnerAddress)
	}
	if got.ID != row.ID.String() || got.Status != domain.StatusPending {
		t.Errorf("unexpected mapping %+v", got)
	}
}
