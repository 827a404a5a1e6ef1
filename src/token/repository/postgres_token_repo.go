package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ domain.TokenRepository = (*TokenRepo)(nil)

// ---------- TOKENS ----------
// (symbol, network) is the linking identity; the uuid is internal.
type Token struct {
	ID          uuid.UUID           `gorm:"type:uuid;primarykey"`
	Symbol      string              `gorm:"not null;uniqueIndex:uidx_tokens_symbol_network"`
	Name        string              `gorm:"not null"`
	Network     string              `gorm:"not null;uniqueIndex:uidx_tokens_symbol_network"`
	Address     string              `gorm:"not null"`
	Decimals    int                 `gorm:"not null;default:18"`
	LogoURL     string              `gorm:"column:logo_url"`
	MinimumSwap decimal.NullDecimal `gorm:"type:numeric"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ---------- REPO ----------

type TokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTokenRepo(db *gorm.DB, log *logger.Logger) *TokenRepo {
	if err := db.AutoMigrate(&Token{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &TokenRepo{db: db, log: log}
}

// ---------- TOKEN CRUD ----------

func (r *TokenRepo) List(ctx context.Context) ([]domain.Token, error) {
	var models []Token
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return ToDomainTokens(models), nil
}

func (r *TokenRepo) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var t Token
	if err := r.db.WithContext(ctx).First(&t, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ToDomainToken(&t), nil
}

func (r *TokenRepo) FindBySymbolAndNetwork(ctx context.Context, symbol string, network domain.Network) (*domain.Token, error) {
	var t Token
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND network = ?", symbol, string(network)).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ToDomainToken(&t), nil
}

func (r *TokenRepo) Create(ctx context.Context, t *domain.Token) (*domain.Token, error) {
	model := FromDomainToken(t)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, fmt.Errorf("create token %s/%s: %w", t.Symbol, t.Network, err)
	}
	return ToDomainToken(&model), nil
}

// Seed inserts the fallback catalog when the table is empty.
func (r *TokenRepo) Seed(ctx context.Context, tokens []domain.Token) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Token{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	models := make([]Token, 0, len(tokens))
	for i := range tokens {
		models = append(models, FromDomainToken(&tokens[i]))
	}
	r.log.Infof("seeding %d tokens", len(models))
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *TokenRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ---------- HELPERS ----------

func ToDomainToken(t *Token) *domain.Token {
	out := &domain.Token{
		ID:       t.ID.String(),
		Symbol:   t.Symbol,
		Name:     t.Name,
		Network:  domain.Network(t.Network),
		Address:  t.Address,
		Decimals: t.Decimals,
		LogoURL:  t.LogoURL,
	}
	if t.MinimumSwap.Valid {
		min := t.MinimumSwap.Decimal
		out.MinimumSwap = &min
	}
	return out
}

func ToDomainTokens(ts []Token) []domain.Token {
	out := make([]domain.Token, 0, len(ts))
	for i := range ts {
		out = append(out, *ToDomainToken(&ts[i]))
	}
	return out
}

func FromDomainToken(t *domain.Token) Token {
	model := Token{
		Symbol:   t.Symbol,
		Name:     t.Name,
		Network:  string(t.Network),
		Address:  t.Address,
		Decimals: t.Decimals,
		LogoURL:  t.LogoURL,
	}
	if id, err := uuid.Parse(t.ID); err == nil {
		model.ID = id
	}
	if t.MinimumSwap != nil {
		model.MinimumSwap = decimal.NewNullDecimal(*t.MinimumSwap)
	}
	return model
}
