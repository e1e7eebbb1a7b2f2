package models

// PlanDetails is the structured document the generator must produce and the
// shape stored in meal_plans.plan_details. Field names follow the response
// contract given to the model, so the raw reply unmarshals directly.
type PlanDetails struct {
	TotalCalories           float64        `json:"totalCalories"`
	Macronutrients          Macronutrients `json:"macronutrients"`
	Meals                   []PlanMeal     `json:"meals"`
	Micronutrients          map[string]any `json:"micronutrients"`
	HydrationRecommendation string         `json:"hydrationRecommendation"`
}

type Macronutrients struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

type PlanMeal struct {
	Type          string     `json:"type"` // breakfast | lunch | dinner | snack
	Time          string     `json:"time"`
	Foods         []PlanFood `json:"foods"`
	TotalCalories float64    `json:"totalCalories"`
}

type PlanFood struct {
	Name     string  `json:"name"`
	Portion  float64 `json:"portion"` // grams
	Calories float64 `json:"calories"`
}
