package planning

import (
	"math"
	"math/rand"
	"sort"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// allocator fills meal slots one at a time in day-then-meal order,
// tracking per-horizon recipe usage for the variety controls. Each
// generation request owns its own allocator; nothing is shared between
// concurrent requests.
type allocator struct {
	params   Params
	minScale float64
	maxScale float64
	rng      *rand.Rand
	usage    map[string]int
	lastUsed map[string]int // recipe id -> most recent day index
}

func newAllocator(params Params, minScale, maxScale float64, seed int64) *allocator {
	return &allocator{
		params:   params,
		minScale: minScale,
		maxScale: maxScale,
		rng:      rand.New(rand.NewSource(seed)),
		usage:    make(map[string]int),
		lastUsed: make(map[string]int),
	}
}

// candidate is one scored recipe for one slot.
type candidate struct {
	recipe  catalog.Recipe
	implied float64 // target calories / base calories, unclamped
	scale   float64 // implied scale clamped to the portion bounds
	calDev  float64 // relative calorie deviation after clamping
	score   float64 // lower is better
}

// fits reports whether the clamped portion lands inside the meal band.
func (c candidate) fits(tolerance float64) bool {
	return c.calDev <= tolerance
}

// allocate assigns a recipe and scale factor to every slot of the
// horizon. The pool per category is never empty once Require has run, so
// every slot receives an assignment; slots where no candidate satisfies
// the tolerance band are flagged relaxed instead of failing the plan.
func (a *allocator) allocate(cands Candidates, pattern MealPattern, mealTargets []nutrition.Target, days int) []mealplan.MealAssignment {
	assignments := make([]mealplan.MealAssignment, 0, days*len(pattern))

	for day := 0; day < days; day++ {
		for meal, slot := range pattern {
			target := mealTargets[meal]
			scored := a.score(cands.For(slot.Category), target, day, days)
			chosen, relaxed := a.choose(scored)

			assignments = append(assignments, mealplan.MealAssignment{
				Slot:        mealplan.MealSlot{Day: day, Meal: meal, Category: slot.Category},
				RecipeID:    chosen.recipe.ID,
				RecipeName:  chosen.recipe.Name,
				ScaleFactor: chosen.scale,
				Nutrition:   chosen.recipe.Nutrition.Scale(chosen.scale),
				Relaxed:     relaxed,
			})

			a.usage[chosen.recipe.ID]++
			a.lastUsed[chosen.recipe.ID] = day
		}
	}
	return assignments
}

// score ranks the pool for one slot. Recipes inside the repeat window or
// at the occurrence cap are dropped while alternatives remain; when that
// would empty the pool the drop becomes a score penalty so the slot can
// still be filled. The result is sorted best-first with the recipe id as
// tie break, keeping the ranking deterministic.
func (a *allocator) score(pool []catalog.Recipe, target nutrition.Target, day, days int) []candidate {
	// A one-day horizon has no trailing window to compare against.
	windowed := a.params.RepeatWindowDays > 0 && days > 1

	fresh := make([]catalog.Recipe, 0, len(pool))
	for _, r := range pool {
		if windowed && a.usedWithinWindow(r.ID, day) {
			continue
		}
		if a.atOccurrenceCap(r.ID) {
			continue
		}
		fresh = append(fresh, r)
	}

	penalized := false
	if len(fresh) == 0 {
		fresh = pool
		penalized = true
	}

	targetSplit := target.MacroSplit()
	scored := make([]candidate, 0, len(fresh))
	for _, r := range fresh {
		c := a.newCandidate(r, target, targetSplit)
		if penalized && ((windowed && a.usedWithinWindow(r.ID, day)) || a.atOccurrenceCap(r.ID)) {
			c.score += a.params.UsageWeight * float64(max(a.params.RepeatWindowDays, 1))
		}
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score < scored[j].score
		}
		return scored[i].recipe.ID < scored[j].recipe.ID
	})
	return scored
}

func (a *allocator) newCandidate(r catalog.Recipe, target nutrition.Target, targetSplit nutrition.MacroSplit) candidate {
	implied := target.Calories / r.Nutrition.Calories
	scale := clamp(implied, a.minScale, a.maxScale)
	calDev := nutrition.RelativeDeviation(r.Nutrition.Calories*scale, target.Calories)
	macroDev := r.Nutrition.MacroSplit().Distance(targetSplit)

	score := a.params.ScaleWeight*math.Abs(implied-1) +
		a.params.CalorieWeight*calDev +
		a.params.MacroWeight*macroDev +
		a.params.UsageWeight*float64(a.usage[r.ID])

	return candidate{recipe: r, implied: implied, scale: scale, calDev: calDev, score: score}
}

// choose draws the weighted top-K pick, walks down the ranking when the
// pick cannot satisfy the meal band after clamping, and relaxes the slot
// to the closest available deviation when nothing in the pool fits.
func (a *allocator) choose(scored []candidate) (candidate, bool) {
	pick := a.pickTopK(scored)
	if scored[pick].fits(a.params.MealTolerance) {
		return scored[pick], false
	}

	for i, c := range scored {
		if i == pick {
			continue
		}
		if c.fits(a.params.MealTolerance) {
			return c, false
		}
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].calDev < scored[best].calDev {
			best = i
		}
	}
	return scored[best], true
}

// pickTopK draws among the K best candidates with probability inversely
// proportional to score. Exactly one PRNG draw happens per slot, so a
// fixed seed reproduces the same plan regardless of later rejections.
func (a *allocator) pickTopK(scored []candidate) int {
	k := a.params.TopK
	if k > len(scored) {
		k = len(scored)
	}

	total := 0.0
	for i := 0; i < k; i++ {
		total += selectionWeight(scored[i].score)
	}

	draw := a.rng.Float64() * total
	for i := 0; i < k; i++ {
		draw -= selectionWeight(scored[i].score)
		if draw < 0 {
			return i
		}
	}
	return k - 1
}

const weightFloor = 1e-3

func selectionWeight(score float64) float64 {
	return 1 / (weightFloor + score)
}

func (a *allocator) usedWithinWindow(id string, day int) bool {
	last, ok := a.lastUsed[id]
	return ok && day-last < a.params.RepeatWindowDays
}

func (a *allocator) atOccurrenceCap(id string) bool {
	return a.params.MaxOccurrences > 0 && a.usage[id] >= a.params.MaxOccurrences
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
