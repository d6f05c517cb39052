package types_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

func TestCategoryID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.CategoryID
		wantErr bool
	}{
		{"valid single word", "fraude", false},
		{"valid with hyphen", "conflito-interesses", false},
		{"valid with underscore", "assedio_moral", false},
		{"empty", "", true},
		{"uppercase", "Fraude", true},
		{"spaces", "conflito de interesses", true},
		{"starting with hyphen", "-fraude", true},
		{"double hyphen", "a--b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CategoryID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTenantID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.TenantID
		wantErr bool
	}{
		{"default", types.DefaultTenantID, false},
		{"mixed case with hyphen", "Acme-BR_01", false},
		{"empty", "", true},
		{"path separator", "a/b", true},
		{"parent reference", "..", true},
		{"starting with hyphen", "-acme", true},
		{"too long", types.TenantID(strings.Repeat("a", 64)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("TenantID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPriorityLevelFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  types.PriorityLevel
	}{
		{0, types.PriorityLow},
		{1, types.PriorityLow},
		{2, types.PriorityMedium},
		{4, types.PriorityMedium},
		{5, types.PriorityHigh},
		{9, types.PriorityHigh},
	}

	for _, tt := range tests {
		gt.V(t, types.PriorityLevelFromScore(tt.score)).Equal(tt.want)
	}
}

func TestNormalizePriorityLevel(t *testing.T) {
	tests := []struct {
		in   string
		want types.PriorityLevel
		ok   bool
	}{
		{"alto", types.PriorityHigh, true},
		{"High", types.PriorityHigh, true},
		{"médio", types.PriorityMedium, true},
		{"medium", types.PriorityMedium, true},
		{" low ", types.PriorityLow, true},
		{"urgent", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := types.NormalizePriorityLevel(tt.in)
		gt.V(t, got).Equal(tt.want)
		gt.V(t, ok).Equal(tt.ok)
	}
}

func TestRole_IsPrivileged(t *testing.T) {
	gt.B(t, types.RoleAdmin.IsPrivileged()).True()
	gt.B(t, types.RoleCEO.IsPrivileged()).True()
	gt.B(t, types.RoleTriage.IsPrivileged()).True()
	gt.B(t, types.RoleInvestigator.IsPrivileged()).True()
	gt.B(t, types.RoleUser.IsPrivileged()).False()
	gt.B(t, types.Role("").IsPrivileged()).False()
}

func TestParseChannel(t *testing.T) {
	c, err := types.ParseChannel("whatsapp")
	gt.NoError(t, err)
	gt.V(t, c).Equal(types.ChannelWhatsApp)

	_, err = types.ParseChannel("web")
	gt.Error(t, err)

	_, err = types.ParseChannel("telegram")
	gt.Error(t, err)
}
