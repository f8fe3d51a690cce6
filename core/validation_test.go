package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateSupportRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *SupportRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &SupportRecord{
				Title: "SIMロック解除方法",
				URL:   "https://example.com/sim-unlock",
			},
			wantErr: nil,
		},
		{
			name: "valid record with empty vector",
			record: &SupportRecord{
				Title:  "料金プラン",
				URL:    "https://example.com/plans",
				Vector: nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidSupportRecord,
		},
		{
			name: "empty title",
			record: &SupportRecord{
				Title: "",
				URL:   "https://example.com/plans",
			},
			wantErr: ErrEmptyTitle,
		},
		{
			name: "empty url",
			record: &SupportRecord{
				Title: "料金プラン",
				URL:   "",
			},
			wantErr: ErrEmptyURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSupportRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSupportRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSupportRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTurn(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Minute)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		turn    *Turn
		wantErr error
	}{
		{
			name: "valid user turn",
			turn: &Turn{
				Role:      RoleUser,
				Content:   "料金プランを教えてください",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid assistant turn",
			turn: &Turn{
				Role:      RoleAssistant,
				Content:   "こちらをご覧ください",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name:    "nil turn",
			turn:    nil,
			wantErr: ErrInvalidTurn,
		},
		{
			name: "empty content",
			turn: &Turn{
				Role:      RoleUser,
				Content:   "",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "invalid role",
			turn: &Turn{
				Role:      Role(999),
				Content:   "hello",
				Timestamp: validTime,
			},
			wantErr: ErrInvalidRole,
		},
		{
			name: "future timestamp",
			turn: &Turn{
				Role:      RoleUser,
				Content:   "hello",
				Timestamp: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTurn(tt.turn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTurn() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTurn() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRole(t *testing.T) {
	if err := ValidateRole(RoleUser); err != nil {
		t.Errorf("ValidateRole(RoleUser) = %v", err)
	}
	if err := ValidateRole(RoleAssistant); err != nil {
		t.Errorf("ValidateRole(RoleAssistant) = %v", err)
	}
	if err := ValidateRole(Role(0)); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("ValidateRole(0) = %v, want ErrInvalidRole", err)
	}
}
