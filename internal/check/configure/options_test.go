package configure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/check/models"
)

type optionView struct {
	visible []models.OptionKey
	checked []models.OptionKey
}

func viewOf(cfg Configuration, keys []models.OptionKey) optionView {
	var v optionView
	for _, k := range keys {
		o, ok := cfg.Option(k)
		if !ok {
			continue
		}
		if o.Visible {
			v.visible = append(v.visible, k)
		}
		if o.Checked {
			v.checked = append(v.checked, k)
		}
	}
	return v
}

func evContext(workType, relation string, tags ...string) models.ClientContext {
	return models.ClientContext{
		EntityKind: models.EntityIndividual,
		Tags:       models.NewTags(tags...),
		Matter:     models.Matter{WorkType: workType, Relation: relation},
	}
}

var evSelection = models.CheckSelection{CheckType: models.CheckElectronicVerification, CheckTypeState: models.ToggleUserOverridden}

func TestDocumentOptionTable(t *testing.T) {
	const (
		poa   = models.OptionProofOfAddress
		sof   = models.OptionSourceOfFunds
		bank  = models.OptionBankStatements
		gift  = models.OptionGiftDeclaration
		owner = models.OptionProofOfOwnership
	)
	all := []models.OptionKey{poa, sof, bank, gift, owner}

	tests := []struct {
		name     string
		ctx      models.ClientContext
		expected optionView
	}{
		{
			name:     "purchaser",
			ctx:      evContext("Purchase", "Buyer"),
			expected: optionView{visible: []models.OptionKey{poa, sof, bank, gift}, checked: []models.OptionKey{poa, sof, bank}},
		},
		{
			name:     "seller",
			ctx:      evContext("Sale", "Seller"),
			expected: optionView{visible: []models.OptionKey{poa, owner}, checked: []models.OptionKey{poa, owner}},
		},
		{
			name:     "tenant",
			ctx:      evContext("Purchase", "Tenant"),
			expected: optionView{visible: []models.OptionKey{poa, bank}, checked: []models.OptionKey{poa}},
		},
		{
			name:     "private client matches any sub-role",
			ctx:      evContext("Probate", "Executor"),
			expected: optionView{visible: []models.OptionKey{poa, sof, bank}, checked: []models.OptionKey{poa}},
		},
		{
			name:     "conveyancing without sub-role has no row",
			ctx:      evContext("Transfer of Equity", "Spouse"),
			expected: optionView{visible: all},
		},
		{
			name:     "unrouted matter is conservative",
			ctx:      evContext("", ""),
			expected: optionView{visible: all},
		},
		{
			name:     "enhanced ID without source of funds suppresses pre-checking",
			ctx:      evContext("Purchase", "Buyer", models.TagEnhancedID),
			expected: optionView{visible: []models.OptionKey{poa, sof, bank, gift}, checked: []models.OptionKey{poa}},
		},
		{
			name:     "source of funds request shows and pre-checks",
			ctx:      evContext("Sale", "Seller", models.TagSourceOfFunds),
			expected: optionView{visible: all, checked: all},
		},
		{
			name:     "source of funds request with enhanced ID still pre-checks",
			ctx:      evContext("Probate", "", models.TagEnhancedID, models.TagSourceOfFunds),
			expected: optionView{visible: []models.OptionKey{poa, sof, bank, gift}, checked: []models.OptionKey{poa, sof, bank, gift}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Derive(tt.ctx, evSelection)
			assert.Equal(t, tt.expected, viewOf(cfg, all))
		})
	}
}

func TestMonitoringDefault(t *testing.T) {
	ctx := models.ClientContext{EntityKind: models.EntityIndividual}
	sel := models.CheckSelection{CheckType: models.CheckIdentityScreening, CheckTypeState: models.ToggleUserOverridden}

	t.Run("on when screening is on", func(t *testing.T) {
		cfg := Derive(ctx, sel)
		mon, ok := cfg.Option(models.OptionMonitoring)
		require.True(t, ok)
		assert.True(t, mon.DefaultChecked)
		assert.True(t, mon.Checked)
		assert.False(t, mon.Disabled)
	})

	t.Run("off and disabled for document-only variant", func(t *testing.T) {
		cfg := Derive(ctx, sel.WithOption(models.OptionScreening, false))
		mon, _ := cfg.Option(models.OptionMonitoring)
		assert.False(t, mon.Checked)
		assert.True(t, mon.Disabled)

		addr, _ := cfg.Option(models.OptionScreeningAddress)
		assert.True(t, addr.Disabled)
	})

	t.Run("user choice survives recomputation", func(t *testing.T) {
		touched := sel.WithOption(models.OptionMonitoring, false)
		for range 3 {
			cfg := Derive(ctx, touched)
			touched = ApplyDefaults(cfg, touched)
		}
		assert.Equal(t, models.Toggle{On: false, State: models.ToggleUserOverridden}, touched.Option(models.OptionMonitoring))

		cfg := Derive(ctx, touched)
		mon, _ := cfg.Option(models.OptionMonitoring)
		assert.True(t, mon.DefaultChecked)
		assert.False(t, mon.Checked)
		assert.Equal(t, models.ToggleUserOverridden, mon.State)
	})

	t.Run("user choice returns when screening is re-enabled", func(t *testing.T) {
		touched := sel.WithOption(models.OptionMonitoring, true).
			WithOption(models.OptionScreening, false).
			WithOption(models.OptionScreening, true)
		assert.True(t, Derive(ctx, touched).Checked(models.OptionMonitoring))
	})
}

func TestIdentityScreeningDefaults(t *testing.T) {
	known := &models.Address{Country: "GBR", Town: "Bristol", Postcode: "BS1 1AA", BuildingNumber: "12"}
	ctx := models.ClientContext{
		EntityKind:     models.EntityIndividual,
		KnownAddress:   known,
		IdentityImages: []models.IdentityImage{{ID: "p1", DocumentKind: models.DocumentPassport, Side: models.SideSingle}},
	}
	sel := models.CheckSelection{CheckType: models.CheckIdentityScreening, CheckTypeState: models.ToggleUserOverridden}

	cfg := Derive(ctx, sel)
	assert.True(t, cfg.Checked(models.OptionScreening))
	assert.True(t, cfg.Checked(models.OptionScreeningAddress))
	assert.True(t, cfg.Checked(models.OptionIdentityDocument))

	bare := Derive(models.ClientContext{EntityKind: models.EntityIndividual}, sel)
	assert.False(t, bare.Checked(models.OptionScreeningAddress))
	assert.False(t, bare.Checked(models.OptionIdentityDocument))
}

func TestBusinessDefaults(t *testing.T) {
	ctx := models.ClientContext{EntityKind: models.EntityBusiness}
	cfg := Derive(ctx, models.CheckSelection{CheckType: models.CheckBusinessVerification, CheckTypeState: models.ToggleUserOverridden})

	assert.True(t, cfg.Checked(models.OptionCompanyReport))
	assert.True(t, cfg.Checked(models.OptionOfficers))
	assert.False(t, cfg.Checked(models.OptionScreening))
	assert.False(t, cfg.Checked(models.OptionRuleBased))
	assert.False(t, cfg.Checked(models.OptionMonitoring))
	assert.Equal(t, OptionsFor(models.CheckBusinessVerification), keysOf(cfg.Options))
}

func keysOf(options []OptionConfig) []models.OptionKey {
	out := make([]models.OptionKey, 0, len(options))
	for _, o := range options {
		out = append(out, o.Key)
	}
	return out
}
