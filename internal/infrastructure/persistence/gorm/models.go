// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsmith/v2/internal/domain/mealplan"
)

// MealPlanModel represents the GORM model for stored meal plans. The full
// generation artifact is kept as a JSON document; the flat columns exist
// for list queries and filtering without unpacking the document.
type MealPlanModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	DietProfileID string    `gorm:"type:varchar(64);not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	Seed          int64     `gorm:"not null"`

	// Projection columns for list views
	Days           int     `gorm:"not null"`
	MealsPerDay    int     `gorm:"not null"`
	TargetCalories float64 `gorm:"not null"`

	Document PlanDocument `gorm:"type:json;not null"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// IngredientModel represents the GORM model for catalog ingredients
type IngredientModel struct {
	ID       string      `gorm:"type:varchar(64);primaryKey"`
	Name     string      `gorm:"type:varchar(255);not null"`
	Category string      `gorm:"type:varchar(20);not null;index"`
	Unit     string      `gorm:"type:varchar(10);not null"`
	Tags     StringSlice `gorm:"type:json"`

	// Nutrients contained in one reference unit
	PerUnitCalories float64 `gorm:"column:per_unit_calories;default:0"`
	PerUnitProtein  float64 `gorm:"column:per_unit_protein;default:0"`
	PerUnitCarbs    float64 `gorm:"column:per_unit_carbs;default:0"`
	PerUnitFat      float64 `gorm:"column:per_unit_fat;default:0"`
}

// RecipeModel represents the GORM model for catalog recipes
type RecipeModel struct {
	ID         string      `gorm:"type:varchar(64);primaryKey"`
	Name       string      `gorm:"type:varchar(255);not null"`
	Categories StringSlice `gorm:"type:json;not null"`
	Tags       StringSlice `gorm:"type:json"`
	Servings   int         `gorm:"default:1"`

	// Nutrient totals at base yield
	Calories float64 `gorm:"not null"`
	Protein  float64 `gorm:"default:0"`
	Carbs    float64 `gorm:"default:0"`
	Fat      float64 `gorm:"default:0"`

	Ingredients RecipeIngredientsField `gorm:"type:json;not null"`
}

// RecipeIngredientLine is one serialized (ingredient, quantity) pair
type RecipeIngredientLine struct {
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// RecipeIngredientsField custom type for the serialized ingredient list
type RecipeIngredientsField []RecipeIngredientLine

// Scan implements the sql.Scanner interface
func (r *RecipeIngredientsField) Scan(value interface{}) error {
	if value == nil {
		*r = RecipeIngredientsField{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into RecipeIngredientsField", value)
	}
}

// Value implements the driver.Valuer interface
func (r RecipeIngredientsField) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	return json.Marshal(r)
}

// PlanDocument custom type for the serialized generation artifact
type PlanDocument mealplan.Plan

// Scan implements the sql.Scanner interface
func (d *PlanDocument) Scan(value interface{}) error {
	if value == nil {
		*d = PlanDocument{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*mealplan.Plan)(d))
	case string:
		return json.Unmarshal([]byte(v), (*mealplan.Plan)(d))
	default:
		return fmt.Errorf("cannot scan %T into PlanDocument", value)
	}
}

// Value implements the driver.Valuer interface
func (d PlanDocument) Value() (driver.Value, error) {
	return json.Marshal(mealplan.Plan(d))
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (IngredientModel) TableName() string {
	return "catalog_ingredients"
}

func (RecipeModel) TableName() string {
	return "catalog_recipes"
}
