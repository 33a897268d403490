package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateObjectID(t *testing.T) {
	InitValidator()

	type idHolder struct {
		ID string `validate:"required,objectid"`
	}

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid Lowercase Hex", "507f1f77bcf86cd799439011", false},
		{"Valid Uppercase Hex", "507F1F77BCF86CD799439011", false},
		{"Too Short", "507f1f77bcf86cd7994390", true},
		{"Too Long", "507f1f77bcf86cd79943901100", true},
		{"Non Hex Characters", "507f1f77bcf86cd79943901z", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().ValidateStruct(idHolder{ID: tt.id})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRewardType(t *testing.T) {
	InitValidator()

	type rtHolder struct {
		RewardType string `validate:"rewardtype"`
	}

	assert.NoError(t, GetValidator().ValidateStruct(rtHolder{RewardType: "POINT"}))
	assert.NoError(t, GetValidator().ValidateStruct(rtHolder{RewardType: "item"}))
	assert.NoError(t, GetValidator().ValidateStruct(rtHolder{RewardType: ""}))
	assert.Error(t, GetValidator().ValidateStruct(rtHolder{RewardType: "GOLD"}))
}

func TestFormatValidationError(t *testing.T) {
	InitValidator()

	type form struct {
		Name   string `validate:"required,max=5"`
		UserID string `validate:"required,objectid"`
	}

	err := GetValidator().ValidateStruct(form{Name: "toolongname", UserID: "bad"})
	formatted := FormatValidationError(err)

	assert.Equal(t, "Must be at most 5 characters", formatted["name"])
	assert.Equal(t, "Must be a 24 character hex id", formatted["userid"])

	// Non-validator errors collapse to a generic message
	formatted = FormatValidationError(errors.New("boom"))
	assert.Equal(t, "Invalid request format", formatted["error"])

	assert.Nil(t, FormatValidationError(nil))
}
