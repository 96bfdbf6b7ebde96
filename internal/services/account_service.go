package services

import (
	"fmt"

	"sweetspro/internal/loyalty"
	"sweetspro/internal/metrics"
	"sweetspro/internal/models"
	"sweetspro/internal/repositories"

	"go.uber.org/zap"
)

// ProfileUpdate holds the editable profile fields of an account.
type ProfileUpdate struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	PostalCode  string `json:"postal_code" validate:"omitempty,max=16"`
	Address     string `json:"address" validate:"omitempty,max=255"`
}

// FavoriteToggle reports the outcome of toggling a favorite.
type FavoriteToggle struct {
	Action    string   `json:"action"` // "added" or "removed"
	Favorites []string `json:"favorites"`
}

// AccountService exposes a user's profile, favorites and loyalty standing.
type AccountService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	engine   *loyalty.Engine
	locker   *AccountLocker
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users repositories.UserRepository,
	products repositories.ProductRepository,
	engine *loyalty.Engine,
	locker *AccountLocker,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		products: products,
		engine:   engine,
		locker:   locker,
		metrics:  m,
		logger:   logger,
	}
}

// GetAccount returns the user's account without its password hash.
func (s *AccountService) GetAccount(userID string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile overwrites the non-empty profile fields.
func (s *AccountService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	unlock := s.locker.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if update.Email != "" && update.Email != user.Email {
		if existing, err := s.users.GetByEmail(update.Email); err == nil && existing.ID != user.ID {
			return nil, fmt.Errorf("email '%s': %w", update.Email, models.ErrEmailTaken)
		}
		user.Email = update.Email
	}
	setIfNotEmpty(&user.Name, update.Name)
	setIfNotEmpty(&user.PhoneNumber, update.PhoneNumber)
	setIfNotEmpty(&user.PostalCode, update.PostalCode)
	setIfNotEmpty(&user.Address, update.Address)

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// ToggleFavorite adds or removes a product from the user's favorites.
func (s *AccountService) ToggleFavorite(userID, productID string) (FavoriteToggle, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return FavoriteToggle{}, err
	}

	unlock := s.locker.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(userID)
	if err != nil {
		return FavoriteToggle{}, err
	}
	action := "removed"
	if user.ToggleFavorite(productID) {
		action = "added"
	}
	if err := s.users.Update(user); err != nil {
		return FavoriteToggle{}, err
	}
	favorites := user.FavoriteProductIDs
	if favorites == nil {
		favorites = []string{}
	}
	return FavoriteToggle{Action: action, Favorites: favorites}, nil
}

// GetFavorites returns the user's favorite products. Products that have
// since been delisted are skipped.
func (s *AccountService) GetFavorites(userID string) ([]models.Product, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(user.FavoriteProductIDs))
	for _, id := range user.FavoriteProductIDs {
		p, err := s.products.GetByID(id)
		if err != nil {
			continue
		}
		products = append(products, *p)
	}
	return products, nil
}

// Membership reports the user's tier, points and distance to the next tier.
func (s *AccountService) Membership(userID string) (loyalty.Progress, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return loyalty.Progress{}, err
	}
	return s.engine.Progress(user), nil
}

// AwardPoints credits bonus points outside of a purchase.
func (s *AccountService) AwardPoints(userID string, points int64) (loyalty.Result, error) {
	unlock := s.locker.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(userID)
	if err != nil {
		return loyalty.Result{}, err
	}
	result, err := s.engine.AddPoints(user, points)
	if err != nil {
		return loyalty.Result{}, err
	}
	if err := s.users.Update(user); err != nil {
		return loyalty.Result{}, err
	}

	s.metrics.PointsAwarded.Add(float64(points))
	if result.Promoted {
		s.metrics.TierPromotions.WithLabelValues(string(result.Tier)).Inc()
	}
	s.logger.Info("bonus points awarded",
		zap.String("user_id", userID),
		zap.Int64("points", points),
		zap.String("tier", string(result.Tier)))
	return result, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
