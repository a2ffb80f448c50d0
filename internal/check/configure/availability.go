package configure

import "onboard/internal/check/models"

// Auto-selection inventory thresholds.
const (
	minSuitablePhotoIDs     = 1
	minAddressEvidenceItems = 2
)

// AvailableCheckTypes lists the check types offered for an entity kind.
// Charities are offered nothing; that state is terminal.
func AvailableCheckTypes(kind models.EntityKind) []models.CheckType {
	switch kind {
	case models.EntityBusiness:
		return []models.CheckType{models.CheckBusinessVerification}
	case models.EntityCharity:
		return []models.CheckType{}
	default:
		return []models.CheckType{models.CheckIdentityScreening, models.CheckElectronicVerification}
	}
}

// AutoSelectCheckType picks at most one check type from upstream tags and the
// document inventory. Electronic verification wins when both heuristics match.
// Returns "" when nothing applies or the context is contradictory.
func AutoSelectCheckType(ctx models.ClientContext) models.CheckType {
	switch ctx.EntityKind {
	case models.EntityIndividual:
	case models.EntityBusiness:
		if ctx.Tags.Has(models.TagBusinessID) {
			return models.CheckBusinessVerification
		}
		return ""
	default:
		return ""
	}

	if ctx.Tags.Has(models.TagEnhancedID) || ctx.Tags.Has(models.TagSourceOfFunds) {
		return models.CheckElectronicVerification
	}
	if ctx.Tags.Has(models.TagStandardID) || ctx.Tags.Has(models.TagPurchaseID) || inventorySatisfied(ctx) {
		return models.CheckIdentityScreening
	}
	return ""
}

func inventorySatisfied(ctx models.ClientContext) bool {
	return ctx.SuitablePhotoIDCount() >= minSuitablePhotoIDs &&
		ctx.AddressEvidenceCount() >= minAddressEvidenceItems &&
		ctx.Icons.LikenessConfirmed
}
