package catalog

import "github.com/mealsmith/v2/internal/domain/nutrition"

// Ingredient is immutable reference data: a purchasable food item with a
// nutrient profile per one unit of measure and a tag set used for
// exclusion matching.
type Ingredient struct {
	ID       string
	Name     string
	Category IngredientCategory
	Unit     MeasurementUnit
	PerUnit  nutrition.Profile // nutrients contained in one Unit
	Tags     []string
}

// Validate validates the ingredient reference data.
func (i Ingredient) Validate() error {
	if i.ID == "" {
		return ErrIngredientIDRequired
	}
	if i.Name == "" {
		return ErrIngredientNameRequired
	}
	if _, ok := i.Unit.family(); !ok {
		return ErrUnknownUnit
	}
	if err := i.PerUnit.Validate(); err != nil {
		return err
	}
	return nil
}

// IngredientCategory groups ingredients for shopping list presentation.
type IngredientCategory string

const (
	IngredientCategoryProduce IngredientCategory = "produce"
	IngredientCategoryProtein IngredientCategory = "protein"
	IngredientCategoryDairy   IngredientCategory = "dairy"
	IngredientCategoryGrain   IngredientCategory = "grain"
	IngredientCategoryPantry  IngredientCategory = "pantry"
	IngredientCategoryFrozen  IngredientCategory = "frozen"
	IngredientCategoryOther   IngredientCategory = "other"
)

// MeasurementUnit represents units of measurement
type MeasurementUnit string

const (
	// Volume units
	MeasurementUnitTeaspoon   MeasurementUnit = "tsp"
	MeasurementUnitTablespoon MeasurementUnit = "tbsp"
	MeasurementUnitCup        MeasurementUnit = "cup"
	MeasurementUnitMilliliter MeasurementUnit = "ml"
	MeasurementUnitLiter      MeasurementUnit = "l"

	// Weight units
	MeasurementUnitGram     MeasurementUnit = "g"
	MeasurementUnitKilogram MeasurementUnit = "kg"
	MeasurementUnitOunce    MeasurementUnit = "oz"
	MeasurementUnitPound    MeasurementUnit = "lb"

	// Count units
	MeasurementUnitPiece MeasurementUnit = "piece"
	MeasurementUnitDash  MeasurementUnit = "dash"
	MeasurementUnitPinch MeasurementUnit = "pinch"
)

type unitFamily string

const (
	unitFamilyMass   unitFamily = "mass"
	unitFamilyVolume unitFamily = "volume"
	unitFamilyPiece  unitFamily = "piece"
	unitFamilyDash   unitFamily = "dash"
	unitFamilyPinch  unitFamily = "pinch"
)

// conversion holds the family and the factor to that family's base unit
// (g for mass, ml for volume). Dash, pinch, and piece do not convert;
// each is its own family so quantities never merge across them.
type conversion struct {
	family unitFamily
	factor float64
}

var unitConversions = map[MeasurementUnit]conversion{
	MeasurementUnitGram:       {unitFamilyMass, 1},
	MeasurementUnitKilogram:   {unitFamilyMass, 1000},
	MeasurementUnitOunce:      {unitFamilyMass, 28.3495},
	MeasurementUnitPound:      {unitFamilyMass, 453.592},
	MeasurementUnitMilliliter: {unitFamilyVolume, 1},
	MeasurementUnitLiter:      {unitFamilyVolume, 1000},
	MeasurementUnitTeaspoon:   {unitFamilyVolume, 4.92892},
	MeasurementUnitTablespoon: {unitFamilyVolume, 14.7868},
	MeasurementUnitCup:        {unitFamilyVolume, 236.588},
	MeasurementUnitPiece:      {unitFamilyPiece, 1},
	MeasurementUnitDash:       {unitFamilyDash, 1},
	MeasurementUnitPinch:      {unitFamilyPinch, 1},
}

var familyBaseUnits = map[unitFamily]MeasurementUnit{
	unitFamilyMass:   MeasurementUnitGram,
	unitFamilyVolume: MeasurementUnitMilliliter,
	unitFamilyPiece:  MeasurementUnitPiece,
	unitFamilyDash:   MeasurementUnitDash,
	unitFamilyPinch:  MeasurementUnitPinch,
}

func (u MeasurementUnit) family() (unitFamily, bool) {
	c, ok := unitConversions[u]
	return c.family, ok
}

// CompatibleWith reports whether quantities in the two units can be
// summed after conversion.
func (u MeasurementUnit) CompatibleWith(other MeasurementUnit) bool {
	a, okA := u.family()
	b, okB := other.family()
	return okA && okB && a == b
}

// Canonical returns the family base unit and the multiplier that converts
// a quantity in u into that base unit. Unknown units return ok=false.
func (u MeasurementUnit) Canonical() (MeasurementUnit, float64, bool) {
	c, ok := unitConversions[u]
	if !ok {
		return u, 0, false
	}
	return familyBaseUnits[c.family], c.factor, true
}

// TagSet is a set of exclusion tags with O(1) membership checks.
type TagSet map[string]struct{}

// NewTagSet builds a set from tag slices, ignoring empty strings.
func NewTagSet(tagLists ...[]string) TagSet {
	set := make(TagSet)
	for _, tags := range tagLists {
		for _, tag := range tags {
			if tag != "" {
				set[tag] = struct{}{}
			}
		}
	}
	return set
}

// Contains reports whether the tag is in the set.
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// IntersectsAny reports whether any of the given tags is in the set.
func (s TagSet) IntersectsAny(tags []string) bool {
	for _, tag := range tags {
		if s.Contains(tag) {
			return true
		}
	}
	return false
}
