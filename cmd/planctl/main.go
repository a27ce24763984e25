// Package main provides planctl, an offline meal-planning CLI that runs
// the full generation pipeline against the embedded catalog without a
// server, database, or cache.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/mealsmith/v2/internal/application/planner"
	"github.com/mealsmith/v2/internal/domain/planning"
	"github.com/mealsmith/v2/internal/infrastructure/config"
	"github.com/mealsmith/v2/internal/infrastructure/dataplane"
	"github.com/mealsmith/v2/internal/infrastructure/messaging"
	"github.com/mealsmith/v2/internal/infrastructure/monitoring"
	"github.com/mealsmith/v2/internal/infrastructure/persistence/memory"
	"github.com/mealsmith/v2/internal/ports/inbound"
	"github.com/mealsmith/v2/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cli.Command{
		Name:  "planctl",
		Usage: "Generate and inspect Mealsmith meal plans from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a Mealsmith config file (defaults to built-in settings)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			generateCmd(),
			shoppingListCmd(),
			dietsCmd(),
		},
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newPlannerService wires the generation pipeline with in-process
// adapters. Plans live only for the duration of the invocation.
func newPlannerService(ctx context.Context, cmd *cli.Command) (inbound.PlannerService, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if cmd.Bool("verbose") {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:       level,
		Format:      "console",
		Development: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	store, err := dataplane.Load(ctx, cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	params := func() planning.Params { return cfg.Planner.Params() }

	return planner.NewPlannerService(
		store,
		store,
		memory.NewMealPlanRepository(),
		memory.NewCacheRepository(),
		messaging.NewInProcessBus(log),
		monitoring.NewMetricsCollector(log),
		params,
		log,
	), nil
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "calories",
			Usage:    "Daily calorie target",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "diet",
			Usage:    "Diet profile ID (see the diets command)",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "meals",
			Usage: "Meals per day",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Plan horizon in days",
			Value: 7,
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Ingredient tag to exclude (repeatable)",
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "PRNG seed for a reproducible plan (0 draws one)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: table or json",
			Value: "table",
		},
	}
}

func buildCommand(cmd *cli.Command) inbound.GenerateMealPlanCommand {
	gen := inbound.GenerateMealPlanCommand{
		Calories:      int(cmd.Int("calories")),
		DietProfileID: cmd.String("diet"),
		MealsPerDay:   int(cmd.Int("meals")),
		Days:          int(cmd.Int("days")),
		Exclusions:    cmd.StringSlice("exclude"),
	}
	if seed := cmd.Int("seed"); seed != 0 {
		s := int64(seed)
		gen.Seed = &s
	}
	return gen
}

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a meal plan and print it",
		Flags: generateFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			service, err := newPlannerService(ctx, cmd)
			if err != nil {
				return err
			}

			plan, err := service.GenerateMealPlan(ctx, buildCommand(cmd))
			if err != nil {
				return err
			}

			if cmd.String("format") == "json" {
				return writeJSON(plan)
			}
			printPlan(plan)
			return nil
		},
	}
}

func shoppingListCmd() *cli.Command {
	return &cli.Command{
		Name:  "shopping-list",
		Usage: "Generate a meal plan and print its consolidated shopping list",
		Flags: generateFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			service, err := newPlannerService(ctx, cmd)
			if err != nil {
				return err
			}

			plan, err := service.GenerateMealPlan(ctx, buildCommand(cmd))
			if err != nil {
				return err
			}

			list, err := service.GetShoppingList(ctx, plan.ID)
			if err != nil {
				return err
			}

			if cmd.String("format") == "json" {
				return writeJSON(list)
			}
			printShoppingList(plan.Seed, list)
			return nil
		},
	}
}

func dietsCmd() *cli.Command {
	return &cli.Command{
		Name:  "diets",
		Usage: "List the selectable diet profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: table or json",
				Value: "table",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			service, err := newPlannerService(ctx, cmd)
			if err != nil {
				return err
			}

			profiles, err := service.ListDietProfiles(ctx)
			if err != nil {
				return err
			}

			if cmd.String("format") == "json" {
				return writeJSON(profiles)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPROTEIN\tCARBS\tFAT\tEXCLUDES")
			for _, p := range profiles {
				fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%.0f%%\t%.0f%%\t%v\n",
					p.ID, p.Name,
					p.Macros.Protein*100, p.Macros.Carbs*100, p.Macros.Fat*100,
					p.ExcludedTags,
				)
			}
			return w.Flush()
		},
	}
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPlan(plan *inbound.MealPlanDTO) {
	fmt.Printf("Plan %s  profile=%s  seed=%d  status=%s\n\n",
		plan.ID, plan.DietProfileID, plan.Seed, plan.Status)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tMEAL\tCATEGORY\tRECIPE\tSCALE\tCALORIES")
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			marker := ""
			if meal.Relaxed {
				marker = " *"
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s%s\t%.2f\t%.0f\n",
				day.Day, meal.Meal, meal.Category, meal.RecipeName, marker,
				meal.ScaleFactor, meal.Nutrition.Calories,
			)
		}
		fmt.Fprintf(w, "\t\t\tday total\t\t%.0f\n", day.Totals.Calories)
	}
	w.Flush()

	if len(plan.FlaggedDays) > 0 {
		fmt.Printf("\nDays outside tolerance: %v (* marks relaxed slots)\n", plan.FlaggedDays)
	}
}

func printShoppingList(seed int64, list *inbound.ShoppingListDTO) {
	fmt.Printf("Shopping list for plan %s (seed=%d)\n\n", list.PlanID, seed)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGREDIENT\tCATEGORY\tQUANTITY\tUNIT")
	for _, item := range list.Items {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", item.Name, item.Category, item.Quantity, item.Unit)
	}
	w.Flush()
}
