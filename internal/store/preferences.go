package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
)

const preferencesDocID = "dashboard_preferences"

type preferenceStore struct {
	client   *firestore.Client
	clockNow func() time.Time
}

func NewPreferenceStore(client *firestore.Client) *preferenceStore {
	return &preferenceStore{client: client, clockNow: time.Now}
}

func (s *preferenceStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("settings").Doc(preferencesDocID)
}

// Get returns the stored preferences, or NotFoundError when the user has
// never saved a layout.
func (s *preferenceStore) Get(ctx context.Context, uid string) (*models.DashboardPreferences, error) {
	snap, err := s.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("dashboard preferences not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get dashboard preferences", err)
	}
	var p models.DashboardPreferences
	if err := snap.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse dashboard preferences", err)
	}
	return &p, nil
}

// Replace overwrites the stored layout inside a transaction and bumps the
// version. With expectedVersion set, a different stored version (0 when
// absent) fails with ConflictError. A layout identical to the stored one
// is not written and reports changed=false.
func (s *preferenceStore) Replace(ctx context.Context, uid string, layout []models.WidgetPreference, expectedVersion *int64) (*models.DashboardPreferences, bool, error) {
	ref := s.doc(uid)
	var (
		result  models.DashboardPreferences
		changed bool
	)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changed = false
		var current *models.DashboardPreferences
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			var p models.DashboardPreferences
			if err := snap.DataTo(&p); err != nil {
				return err
			}
			current = &p
		}

		var actual int64
		if current != nil {
			actual = current.Version
		}
		if expectedVersion != nil && *expectedVersion != actual {
			return errs.NewConflictError(*expectedVersion, actual)
		}

		if current != nil && slices.Equal(current.Layout, layout) {
			result = *current
			return nil
		}

		now := s.clockNow().UTC()
		result = models.DashboardPreferences{
			Layout:    layout,
			Version:   actual + 1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if current != nil && !current.CreatedAt.IsZero() {
			result.CreatedAt = current.CreatedAt
		}
		if result.Layout == nil {
			result.Layout = []models.WidgetPreference{}
		}
		changed = true
		return tx.Set(ref, result)
	})
	if err != nil {
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			return nil, false, conflict
		}
		return nil, false, errs.NewDatabaseError("update", "failed to save dashboard preferences", err)
	}
	return &result, changed, nil
}

// Delete removes the stored layout. Deleting a missing document succeeds.
func (s *preferenceStore) Delete(ctx context.Context, uid string) error {
	if _, err := s.doc(uid).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete dashboard preferences", err)
	}
	return nil
}
