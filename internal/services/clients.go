package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/models"
)

// Errors for collaborator lookups. Handlers map ErrRecordNotFound to a
// 404 and the unavailable/timeout pair to a retryable 503: a failed
// mandatory ownership check must abort the write, never permit it.
var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServiceTimeout     = errors.New("service timeout")
)

// VenueDirectory resolves a venue for ownership verification. The
// booking service runs against either the local store or a sibling
// venue service, depending on deployment.
type VenueDirectory interface {
	GetVenue(ctx context.Context, id uint, credential string) (*models.Venue, error)
}

// UserDirectory resolves a user, mainly for notification email lookup.
type UserDirectory interface {
	GetUser(ctx context.Context, id uint, credential string) (*models.User, error)
}

// LocalVenues resolves venues from this service's own database.
type LocalVenues struct {
	db *gorm.DB
}

func NewLocalVenues(db *gorm.DB) *LocalVenues {
	return &LocalVenues{db: db}
}

func (l *LocalVenues) GetVenue(ctx context.Context, id uint, _ string) (*models.Venue, error) {
	var venue models.Venue
	if err := l.db.WithContext(ctx).First(&venue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &venue, nil
}

// LocalUsers resolves users from this service's own database.
type LocalUsers struct {
	db *gorm.DB
}

func NewLocalUsers(db *gorm.DB) *LocalUsers {
	return &LocalUsers{db: db}
}

func (l *LocalUsers) GetUser(ctx context.Context, id uint, _ string) (*models.User, error) {
	var user models.User
	if err := l.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// VenueClient fetches venues from a sibling venue service over HTTP.
// Calls carry a bounded timeout and forward the caller's credential.
type VenueClient struct {
	baseURL string
	http    *http.Client
}

func NewVenueClient(baseURL string, timeout time.Duration) *VenueClient {
	return &VenueClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (vc *VenueClient) GetVenue(ctx context.Context, id uint, credential string) (*models.Venue, error) {
	url := fmt.Sprintf("%s/api/venues/%d", vc.baseURL, id)

	var venue models.Venue
	if err := getJSON(ctx, vc.http, url, credential, &venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

// UserClient fetches users from the auth service over HTTP.
type UserClient struct {
	baseURL string
	http    *http.Client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (uc *UserClient) GetUser(ctx context.Context, id uint, credential string) (*models.User, error) {
	url := fmt.Sprintf("%s/api/users/%d", uc.baseURL, id)

	var user models.User
	if err := getJSON(ctx, uc.http, url, credential, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func getJSON(ctx context.Context, client *http.Client, url, credential string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrServiceTimeout
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrServiceTimeout
		}
		return ErrServiceUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrRecordNotFound
	case resp.StatusCode >= 500:
		return ErrServiceUnavailable
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
