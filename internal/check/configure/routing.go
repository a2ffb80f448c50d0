package configure

import (
	"slices"

	"onboard/internal/check/models"
	pstrings "onboard/pkg/platform/strings"
)

// Routing is the matter category and the client's sub-role within it.
// An empty SubRole is left for manual choice.
type Routing struct {
	Category models.MatterCategory
	SubRole  models.SubRole
}

// HasSubRoles reports whether the category requires a sub-role choice.
func (r Routing) HasSubRoles() bool {
	return len(SubRolesFor(r.Category)) > 0
}

var subRolesByCategory = map[models.MatterCategory][]models.SubRole{
	models.CategoryConveyancing: {
		models.SubRolePurchaser,
		models.SubRoleSeller,
		models.SubRoleRemortgagor,
		models.SubRoleGiftor,
		models.SubRoleOther,
	},
	models.CategoryOtherProperty: {
		models.SubRoleTenant,
		models.SubRoleLandlord,
		models.SubRoleOccupier,
	},
}

// SubRolesFor lists the sub-roles offered for a category, in display order.
func SubRolesFor(category models.MatterCategory) []models.SubRole {
	return slices.Clone(subRolesByCategory[category])
}

// ValidSubRole reports whether role belongs to category.
func ValidSubRole(category models.MatterCategory, role models.SubRole) bool {
	return slices.Contains(subRolesByCategory[category], role)
}

// relationOverride routes by relation regardless of work type.
type relationOverride struct {
	relations []string
	category  models.MatterCategory
}

var relationOverrides = []relationOverride{
	{relations: []string{"tenant", "occupier", "landlord"}, category: models.CategoryOtherProperty},
	{relations: []string{"executor", "administrator", "beneficiary", "attorney", "deputy", "trustee"}, category: models.CategoryPrivateClient},
}

// workTypeRoute maps normalized work types to a category.
type workTypeRoute struct {
	workTypes []string
	category  models.MatterCategory
}

var workTypeRoutes = []workTypeRoute{
	{
		workTypes: []string{"purchase", "sale", "sale and purchase", "remortgage", "transfer of equity", "new build purchase", "right to buy", "auction purchase"},
		category:  models.CategoryConveyancing,
	},
	{
		workTypes: []string{"lease", "lease extension", "tenancy", "assured shorthold tenancy", "licence to occupy", "commercial lease"},
		category:  models.CategoryOtherProperty,
	},
	{
		workTypes: []string{"will", "wills", "probate", "estate administration", "lasting power of attorney", "lpa", "trust", "deputyship"},
		category:  models.CategoryPrivateClient,
	},
	{
		workTypes: []string{"general", "litigation", "dispute resolution", "employment", "family", "corporate", "commercial"},
		category:  models.CategoryGeneral,
	},
}

// subRoleRule assigns a sub-role within a category. Empty relations or
// workTypes match anything.
type subRoleRule struct {
	category  models.MatterCategory
	relations []string
	workTypes []string
	role      models.SubRole
}

var subRoleRules = []subRoleRule{
	{category: models.CategoryConveyancing, relations: []string{"purchaser", "buyer"}, role: models.SubRolePurchaser},
	{category: models.CategoryConveyancing, relations: []string{"seller", "vendor"}, role: models.SubRoleSeller},
	{category: models.CategoryConveyancing, relations: []string{"remortgagor", "borrower"}, role: models.SubRoleRemortgagor},
	{category: models.CategoryConveyancing, relations: []string{"giftor", "gifter", "donor"}, role: models.SubRoleGiftor},
	{category: models.CategoryConveyancing, relations: []string{"guarantor", "other"}, role: models.SubRoleOther},
	{category: models.CategoryConveyancing, relations: []string{"client", ""}, workTypes: []string{"purchase", "new build purchase", "right to buy", "auction purchase"}, role: models.SubRolePurchaser},
	{category: models.CategoryConveyancing, relations: []string{"client", ""}, workTypes: []string{"sale"}, role: models.SubRoleSeller},
	{category: models.CategoryConveyancing, relations: []string{"client", ""}, workTypes: []string{"remortgage"}, role: models.SubRoleRemortgagor},
	{category: models.CategoryOtherProperty, relations: []string{"tenant"}, role: models.SubRoleTenant},
	{category: models.CategoryOtherProperty, relations: []string{"landlord"}, role: models.SubRoleLandlord},
	{category: models.CategoryOtherProperty, relations: []string{"occupier"}, role: models.SubRoleOccupier},
	{category: models.CategoryOtherProperty, relations: []string{"client", ""}, workTypes: []string{"tenancy", "assured shorthold tenancy"}, role: models.SubRoleTenant},
}

// Route derives the matter category and sub-role. Relation overrides win
// over the work-type mapping; combinations with no table entry leave the
// sub-role (or the category) unset rather than guessing.
func Route(workType, relation string) Routing {
	wt := pstrings.NormalizeKey(workType)
	rel := pstrings.NormalizeKey(relation)

	var routing Routing
	for _, o := range relationOverrides {
		if slices.Contains(o.relations, rel) {
			routing.Category = o.category
			break
		}
	}
	if routing.Category == "" {
		for _, r := range workTypeRoutes {
			if slices.Contains(r.workTypes, wt) {
				routing.Category = r.category
				break
			}
		}
	}
	if routing.Category == "" {
		return routing
	}

	for _, r := range subRoleRules {
		if r.category != routing.Category {
			continue
		}
		if len(r.relations) > 0 && !slices.Contains(r.relations, rel) {
			continue
		}
		if len(r.workTypes) > 0 && !slices.Contains(r.workTypes, wt) {
			continue
		}
		routing.SubRole = r.role
		break
	}
	return routing
}

// effectiveRouting applies the user's routing choice over the derived one.
// A chosen category without a chosen sub-role keeps the derived sub-role only
// when the categories agree.
func effectiveRouting(derived Routing, sel models.CheckSelection) Routing {
	if sel.Category == "" {
		if sel.SubRole != "" && ValidSubRole(derived.Category, sel.SubRole) {
			derived.SubRole = sel.SubRole
		}
		return derived
	}
	out := Routing{Category: sel.Category, SubRole: sel.SubRole}
	if out.SubRole == "" && derived.Category == sel.Category {
		out.SubRole = derived.SubRole
	}
	return out
}
