package fitness

import "github.com/shopspring/decimal"

// BMI categories.
const (
	Underweight = "Underweight"
	Normal      = "Normal"
	Overweight  = "Overweight"
	Obese       = "Obese"
)

// Meal is one entry of a daily food plan.
type Meal struct {
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

// Plan is the calorie target and food plan recommended for a category.
type Plan struct {
	CalorieTarget int
	FoodPlan      []Meal
}

var plans = map[string]Plan{
	Underweight: {CalorieTarget: 2600, FoodPlan: []Meal{
		{"breakfast", []string{"Peanut butter toast", "Banana smoothie", "Boiled eggs"}},
		{"lunch", []string{"Rice with lentils", "Grilled chicken", "Fruit salad"}},
		{"dinner", []string{"Pasta with cheese", "Baked salmon", "Milkshake"}},
		{"snacks", []string{"Nuts", "Granola bars", "Greek yogurt"}},
	}},
	Normal: {CalorieTarget: 2100, FoodPlan: []Meal{
		{"breakfast", []string{"Oatmeal with fruits", "Boiled egg", "Green tea"}},
		{"lunch", []string{"Grilled chicken with quinoa", "Mixed veggies"}},
		{"dinner", []string{"Brown rice, dal, salad"}},
		{"snacks", []string{"Fruit bowl", "Nuts"}},
	}},
	Overweight: {CalorieTarget: 1700, FoodPlan: []Meal{
		{"breakfast", []string{"Egg whites", "Oatmeal", "Black coffee"}},
		{"lunch", []string{"Grilled fish", "Steamed broccoli", "Soup"}},
		{"dinner", []string{"Cauliflower rice", "Grilled tofu"}},
		{"snacks", []string{"Carrots", "Low-fat yogurt"}},
	}},
	Obese: {CalorieTarget: 1400, FoodPlan: []Meal{
		{"breakfast", []string{"Egg white omelet", "Green tea"}},
		{"lunch", []string{"Vegetable soup", "Salad"}},
		{"dinner", []string{"Grilled veggies", "Lettuce wrap with turkey"}},
		{"snacks", []string{"Cucumber sticks", "Almonds (5-6)"}},
	}},
}

var (
	underweightBelow = decimal.RequireFromString("18.5")
	normalBelow      = decimal.NewFromInt(24)
	overweightBelow  = decimal.NewFromInt(29)
)

// BMI is weight (kg) over height (m) squared, rounded to one decimal.
func BMI(weightKg, heightCm float64) decimal.Decimal {
	m := decimal.NewFromFloat(heightCm).Div(decimal.NewFromInt(100))
	return decimal.NewFromFloat(weightKg).Div(m.Mul(m)).Round(1)
}

// Category buckets a rounded BMI.
func Category(bmi decimal.Decimal) string {
	switch {
	case bmi.LessThan(underweightBelow):
		return Underweight
	case bmi.LessThan(normalBelow):
		return Normal
	case bmi.LessThan(overweightBelow):
		return Overweight
	}
	return Obese
}

// PlanFor returns the plan for a category.
func PlanFor(category string) (Plan, bool) {
	p, ok := plans[category]
	return p, ok
}

func (p Plan) foodPlan() []interface{} {
	out := make([]interface{}, 0, len(p.FoodPlan))
	for _, m := range p.FoodPlan {
		items := make([]interface{}, len(m.Items))
		for i, it := range m.Items {
			items[i] = it
		}
		out = append(out, map[string]interface{}{"type": m.Type, "items": items})
	}
	return out
}
