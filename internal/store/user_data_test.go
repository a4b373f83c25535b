package store

import (
	"context"
	"errors"
	"testing"
)

func createTestUserData(t *testing.T, s *Store, username string) UserData {
	t.Helper()
	user, err := s.CreateUserData(context.Background(), CreateUserDataParams{
		Username:     username,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestStore_GetUserDataByID(t *testing.T) {
	s := SetupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(t *testing.T) int64
		wantErr error
	}{
		{
			name: "get existing user",
			setup: func(t *testing.T) int64 {
				return createTestUserData(t, s, "alice").ID
			},
		},
		{
			name: "user does not exist",
			setup: func(t *testing.T) int64 {
				return 999999
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			truncateUserData(t, s)
			id := tt.setup(t)

			user, err := s.GetUserDataByID(ctx, id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetUserDataByID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetUserDataByID() error = %v", err)
			}
			if user.ID != id {
				t.Errorf("ID = %v, want %v", user.ID, id)
			}
			if user.Username != "alice" {
				t.Errorf("Username = %v, want alice", user.Username)
			}
			if user.CreatedAt.IsZero() {
				t.Error("CreatedAt is zero, want a timestamp")
			}
		})
	}
}

func TestStore_DeleteUserDataByID(t *testing.T) {
	s := SetupTestDB(t)
	ctx := context.Background()

	user := createTestUserData(t, s, "bob")

	rows, err := s.DeleteUserDataByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("DeleteUserDataByID() error = %v", err)
	}
	if rows != 1 {
		t.Errorf("rows affected = %d, want 1", rows)
	}

	// Deleting the same id again is idempotent
	rows, err = s.DeleteUserDataByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("DeleteUserDataByID() second call error = %v", err)
	}
	if rows != 0 {
		t.Errorf("rows affected = %d, want 0", rows)
	}

	if _, err := s.GetUserDataByID(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserDataByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteUserDataByID_OnlyTargetRow(t *testing.T) {
	s := SetupTestDB(t)
	ctx := context.Background()

	keep := createTestUserData(t, s, "keep")
	gone := createTestUserData(t, s, "gone")

	rows, err := s.DeleteUserDataByID(ctx, gone.ID)
	if err != nil {
		t.Fatalf("DeleteUserDataByID() error = %v", err)
	}
	if rows != 1 {
		t.Errorf("rows affected = %d, want 1", rows)
	}

	if _, err := s.GetUserDataByID(ctx, keep.ID); err != nil {
		t.Errorf("GetUserDataByID() for untouched row error = %v", err)
	}
}
