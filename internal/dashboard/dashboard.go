// Package dashboard computes the monthly cost allocation for a mess:
// weighted meal-unit totals, the derived per-unit meal rate, per-member
// balances, and manager assignment statistics. All money and unit
// arithmetic stays in decimal form; rounding to currency precision
// happens exactly where a figure is produced, never earlier.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"messbook/internal/model"
)

// Balance status of a member row, by the sign of net.
const (
	StatusDue     = "due"
	StatusAdvance = "advance"
	StatusSettled = "settled"
)

var one = decimal.NewFromInt(1)

// Input carries everything Compute needs, already scoped to one mess:
// members must be the active set, meals/expenses/deposits must fall in
// the period, and assignments are the mess's full history.
type Input struct {
	Mess        model.Mess
	Year        int
	Month       int
	Members     []model.Member
	Meals       []model.Meal
	Expenses    []model.Expense
	Deposits    []model.Deposit
	Assignments []model.Assignment
}

type Summary struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalMeals       decimal.Decimal `json:"total_meals"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	MealRate         decimal.Decimal `json:"meal_rate"`
	MessBalance      decimal.Decimal `json:"mess_balance"`
	ActiveMembers    int             `json:"active_members"`
	IncludeBreakfast bool            `json:"include_breakfast"`
	BreakfastWeight  decimal.Decimal `json:"breakfast_weight"`
}

type MemberRow struct {
	MemberID  int64           `json:"id"`
	Name      string          `json:"name"`
	Meals     decimal.Decimal `json:"meals"`
	MealCost  decimal.Decimal `json:"meal_cost"`
	Deposited decimal.Decimal `json:"deposited"`
	Net       decimal.Decimal `json:"net"`
	Status    string          `json:"status"`
}

type ManagerStat struct {
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	TotalDays       int       `json:"total_days"`
	AssignmentCount int       `json:"assignment_count"`
	LastStart       time.Time `json:"last_start"`
	LastEnd         time.Time `json:"last_end"`
}

type Result struct {
	Summary      Summary       `json:"summary"`
	Members      []MemberRow   `json:"members"`
	ManagerStats []ManagerStat `json:"manager_stats"`
}

// EffectiveBreakfastWeight is the weight a breakfast contributes to a
// meal unit: the configured weight when the mess counts breakfast,
// otherwise zero regardless of per-record flags.
func EffectiveBreakfastWeight(mess model.Mess) decimal.Decimal {
	if !mess.IncludeBreakfast {
		return decimal.Zero
	}
	return mess.BreakfastWeight
}

// MealUnits returns the weighted unit total of one meal record:
// breakfastWeight for breakfast, one each for lunch and dinner, plus
// fractional extra meals.
func MealUnits(m model.Meal, breakfastWeight decimal.Decimal) decimal.Decimal {
	units := decimal.Zero
	if m.HadBreakfast {
		units = units.Add(breakfastWeight)
	}
	if m.HadLunch {
		units = units.Add(one)
	}
	if m.HadDinner {
		units = units.Add(one)
	}
	return units.Add(m.ExtraMeals)
}

// Compute is a pure function of its input: identical data always yields
// an identical result.
func Compute(in Input) Result {
	activeIDs := make(map[int64]bool, len(in.Members))
	for _, m := range in.Members {
		activeIDs[m.ID] = true
	}

	totalExpense := decimal.Zero
	for _, e := range in.Expenses {
		totalExpense = totalExpense.Add(e.Amount)
	}
	totalCollected := decimal.Zero
	depositsPerMember := make(map[int64]decimal.Decimal)
	for _, d := range in.Deposits {
		totalCollected = totalCollected.Add(d.Amount)
		depositsPerMember[d.MemberID] = depositsPerMember[d.MemberID].Add(d.Amount)
	}

	weight := EffectiveBreakfastWeight(in.Mess)
	mealsPerMember := make(map[int64]decimal.Decimal)
	totalMeals := decimal.Zero
	for _, meal := range in.Meals {
		if !activeIDs[meal.MemberID] {
			continue
		}
		units := MealUnits(meal, weight)
		mealsPerMember[meal.MemberID] = mealsPerMember[meal.MemberID].Add(units)
		totalMeals = totalMeals.Add(units)
	}

	// Rate is zero when nobody ate anything, whatever was spent.
	mealRate := decimal.Zero
	if totalMeals.IsPositive() {
		mealRate = totalExpense.Div(totalMeals).Round(2)
	}

	rows := make([]MemberRow, 0, len(in.Members))
	for _, m := range in.Members {
		units := mealsPerMember[m.ID]
		mealCost := units.Mul(mealRate).Round(2)
		deposited := depositsPerMember[m.ID]
		net := deposited.Sub(mealCost).Round(2)

		status := StatusSettled
		switch {
		case net.IsNegative():
			status = StatusDue
		case net.IsPositive():
			status = StatusAdvance
		}

		rows = append(rows, MemberRow{
			MemberID:  m.ID,
			Name:      m.Name,
			Meals:     units,
			MealCost:  mealCost,
			Deposited: deposited,
			Net:       net,
			Status:    status,
		})
	}

	// Cash-flow view: collected minus spent. This is deliberately not
	// the sum of member nets, which allocate expense by consumption.
	messBalance := totalCollected.Sub(totalExpense).Round(2)

	return Result{
		Summary: Summary{
			Year:             in.Year,
			Month:            in.Month,
			TotalMeals:       totalMeals,
			TotalExpense:     totalExpense,
			TotalCollected:   totalCollected,
			MealRate:         mealRate,
			MessBalance:      messBalance,
			ActiveMembers:    len(in.Members),
			IncludeBreakfast: in.Mess.IncludeBreakfast,
			BreakfastWeight:  weight,
		},
		Members:      rows,
		ManagerStats: managerStats(in.Assignments),
	}
}

// managerStats folds assignments into one accumulator per manager user,
// preserving first-encounter order. The last period is replaced only on
// a strictly later start date; on a tie the earlier-encountered record
// stands.
func managerStats(assignments []model.Assignment) []ManagerStat {
	byUser := make(map[int64]*ManagerStat)
	var order []int64

	for i := range assignments {
		a := &assignments[i]
		stat, ok := byUser[a.ManagerUserID]
		if !ok {
			stat = &ManagerStat{
				UserID:    a.ManagerUserID,
				Name:      a.ManagerName,
				LastStart: a.StartDate,
				LastEnd:   a.EndDate,
			}
			byUser[a.ManagerUserID] = stat
			order = append(order, a.ManagerUserID)
		}
		stat.TotalDays += a.TotalDays()
		stat.AssignmentCount++
		if a.StartDate.After(stat.LastStart) {
			stat.LastStart = a.StartDate
			stat.LastEnd = a.EndDate
		}
	}

	stats := make([]ManagerStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, *byUser[id])
	}
	return stats
}

// DayStat aggregates one date of meal records for the recent-history
// view on the meal sheet.
type DayStat struct {
	Date            time.Time       `json:"date"`
	MemberCount     int             `json:"member_count"`
	BreakfastCount  int             `json:"breakfast_count"`
	LunchCount      int             `json:"lunch_count"`
	DinnerCount     int             `json:"dinner_count"`
	TotalExtraMeals decimal.Decimal `json:"total_extra_meals"`
	TotalMeals      decimal.Decimal `json:"total_meals"`
}

// SummarizeDays groups meal records by date, newest first, using the
// same unit weighting as the monthly aggregation.
func SummarizeDays(meals []model.Meal, breakfastWeight decimal.Decimal) []DayStat {
	byDate := make(map[time.Time]*DayStat)
	seen := make(map[time.Time]map[int64]bool)

	for _, m := range meals {
		d := m.Date
		stat, ok := byDate[d]
		if !ok {
			stat = &DayStat{Date: d, TotalExtraMeals: decimal.Zero, TotalMeals: decimal.Zero}
			byDate[d] = stat
			seen[d] = make(map[int64]bool)
		}
		if !seen[d][m.MemberID] {
			seen[d][m.MemberID] = true
			stat.MemberCount++
		}
		if m.HadBreakfast {
			stat.BreakfastCount++
			stat.TotalMeals = stat.TotalMeals.Add(breakfastWeight)
		}
		if m.HadLunch {
			stat.LunchCount++
			stat.TotalMeals = stat.TotalMeals.Add(one)
		}
		if m.HadDinner {
			stat.DinnerCount++
			stat.TotalMeals = stat.TotalMeals.Add(one)
		}
		stat.TotalExtraMeals = stat.TotalExtraMeals.Add(m.ExtraMeals)
		stat.TotalMeals = stat.TotalMeals.Add(m.ExtraMeals)
	}

	stats := make([]DayStat, 0, len(byDate))
	for _, s := range byDate {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date.After(stats[j].Date) })
	return stats
}
