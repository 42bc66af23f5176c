package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/export"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/shopping"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	rt, err := app.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open application", "error", err)
	}
	defer rt.Close()

	cmd, args := os.Args[1], os.Args[2:]
	if err := run(ctx, rt.App, cmd, args); err != nil {
		zl.Error("command failed", "command", cmd, "error", err)
		rt.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {
	case "import":
		return runImport(ctx, a, args)
	case "add":
		return runAdd(ctx, a, args)
	case "meals":
		return runMeals(ctx, a, args)
	case "plan":
		return runPlan(ctx, a, args)
	case "list":
		return runList(ctx, a, args)
	case "show":
		return runShow(ctx, a, args)
	case "grocery":
		return runGrocery(ctx, a, args)
	case "check", "uncheck":
		return runCheck(ctx, a, args, cmd == "check")
	case "export":
		return runExport(ctx, a, args)
	case "delete":
		return runDelete(ctx, a, args)
	case "clip":
		return runClip(ctx, a, args)
	case "sync":
		return runSync(ctx, a)
	case "publish":
		return runPublish(ctx, a, args)
	case "metrics":
		return runMetrics(ctx, a, args)
	case "metrics-cleanup":
		return runMetricsCleanup(ctx, a, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  import <file>                Add catalogue rows from a CSV, YAML or JSON file")
	fmt.Println("  add -name -category [-ingredients -notes]")
	fmt.Println("                               Add one meal to the catalogue")
	fmt.Println("  meals [-category]            List catalogue meals")
	fmt.Println("  plan [-save name] [-format]  Generate a weekly plan")
	fmt.Println("  list [-limit n]              List saved plans")
	fmt.Println("  show <id>                    Print a saved plan")
	fmt.Println("  grocery <id>                 Print the grocery checklist of a saved plan")
	fmt.Println("  check|uncheck <id> <item>    Tick or untick a grocery item")
	fmt.Println("  export [-format] [-o] <id>   Render a saved plan to a file")
	fmt.Println("  delete <id>                  Delete a saved plan")
	fmt.Println("  clip -category <url>         Clip a recipe from a web page")
	fmt.Println("  sync                         Import recipes from Ghost")
	fmt.Println("  publish [-live] <id>         Post a saved plan to Ghost")
	fmt.Println("  metrics [-days n]            Show generation metrics")
	fmt.Println("  metrics-cleanup [-days n]    Remove old metric records")
}

func parsePlanID(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() < 1 {
		return 0, fmt.Errorf("%s: missing plan id", fs.Name())
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid plan id %q", fs.Name(), fs.Arg(0))
	}
	return id, nil
}

func runImport(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("import: missing file path")
	}
	added, skipped, err := a.ImportCatalogue(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d meals, skipped %d rows.\n", added, len(skipped))
	for _, s := range skipped {
		fmt.Printf("  - %v\n", s)
	}
	return nil
}

func runAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	var row meal.Row
	fs.StringVar(&row.ItemName, "name", "", "Meal name")
	fs.StringVar(&row.Category, "category", "", "breakfast, lunch, dinner or snack")
	fs.StringVar(&row.Ingredients, "ingredients", "", "Comma separated ingredients")
	fs.StringVar(&row.Notes, "notes", "", "Free text or a recipe URL")
	fs.Parse(args)

	id, err := a.AddMeal(ctx, row)
	if err != nil {
		return err
	}
	fmt.Printf("Added meal %d.\n", id)
	return nil
}

func runMeals(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("meals", flag.ExitOnError)
	category := fs.String("category", "", "Only list one category")
	fs.Parse(args)

	entries, err := a.ListMeals(ctx, meal.ParseCategory(*category))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tNAME\tINGREDIENTS")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Row.Category, e.Row.ItemName,
			strings.Join(meal.ParseIngredients(e.Row.Ingredients).Sorted(), ", "))
	}
	return w.Flush()
}

func runPlan(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	name := fs.String("save", "", "Save the plan under this name")
	rawFormat := fs.String("format", "md", "Output format: md or json")
	fs.Parse(args)

	format, err := export.ParseFormat(*rawFormat)
	if err != nil {
		return err
	}
	if format != export.FormatMarkdown && format != export.FormatJSON {
		return fmt.Errorf("plan: use export for %s output", format)
	}

	plan, err := a.GeneratePlan(ctx)
	if err != nil {
		return err
	}
	title, createdAt := export.DefaultTitle, time.Now()
	if *name != "" {
		id, err := a.SavePlan(ctx, *name, plan)
		if err != nil {
			return err
		}
		title = *name
		fmt.Fprintf(os.Stderr, "Saved plan %d.\n", id)
	}
	if missing := plan.Missing(); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d slots could not be filled.\n", len(missing))
	}

	data, _, err := a.Render(title, createdAt, plan, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runList(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum number of plans, 0 for all")
	fs.Parse(args)

	plans, err := a.ListSavedPlans(ctx, *limit)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Println("No saved plans.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED")
	for _, p := range plans {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runShow(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	fs.Parse(args)
	id, err := parsePlanID(fs)
	if err != nil {
		return err
	}
	saved, plan, err := a.LoadPlan(ctx, id)
	if err != nil {
		return err
	}
	data, _, err := a.Render(saved.Name, saved.CreatedAt, plan, export.FormatMarkdown)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runGrocery(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("grocery", flag.ExitOnError)
	fs.Parse(args)
	id, err := parsePlanID(fs)
	if err != nil {
		return err
	}
	items, err := a.Checklist(ctx, id)
	if err != nil {
		return err
	}
	printChecklist(items)
	return nil
}

func printChecklist(items []shopping.ChecklistItem) {
	if len(items) == 0 {
		fmt.Println("Nothing to buy.")
		return
	}
	for _, it := range items {
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		fmt.Printf("%s %s (%s)\n", box, it.Ingredient, strings.Join(it.Meals, "; "))
	}
}

func runCheck(ctx context.Context, a *app.App, args []string, checked bool) error {
	if len(args) < 2 {
		return fmt.Errorf("missing plan id or ingredient")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid plan id %q", args[0])
	}
	ingredient := strings.Join(args[1:], " ")
	if err := a.SetChecked(ctx, id, ingredient, checked); err != nil {
		return err
	}
	items, err := a.Checklist(ctx, id)
	if err != nil {
		return err
	}
	printChecklist(items)
	return nil
}

func runExport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	rawFormat := fs.String("format", "html", "md, html, png or json")
	out := fs.String("o", "", "Also copy the export to this path")
	fs.Parse(args)

	format, err := export.ParseFormat(*rawFormat)
	if err != nil {
		return err
	}
	id, err := parsePlanID(fs)
	if err != nil {
		return err
	}
	data, _, path, err := a.ExportSaved(ctx, id, format)
	if err != nil {
		return err
	}
	if *out != "" {
		if err := os.WriteFile(*out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *out, err)
		}
		path = *out
	}
	fmt.Printf("Exported plan %d to %s\n", id, path)
	return nil
}

func runDelete(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	fs.Parse(args)
	id, err := parsePlanID(fs)
	if err != nil {
		return err
	}
	if err := a.DeletePlan(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted plan %d.\n", id)
	return nil
}

func runClip(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("clip", flag.ExitOnError)
	rawCategory := fs.String("category", "dinner", "Category of the clipped meal")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("clip: missing url")
	}
	category := meal.ParseCategory(*rawCategory)
	if !category.IsRequired() {
		return fmt.Errorf("clip: unknown category %q", *rawCategory)
	}
	rec, id, err := a.ClipMeal(ctx, fs.Arg(0), category)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %q as meal %d (%s, %d ingredients).\n", rec.Title, id, rec.Method, len(rec.Ingredients))
	return nil
}

func runSync(ctx context.Context, a *app.App) error {
	res, err := a.SyncFromGhost(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d, unchanged %d, skipped %d.\n", res.Imported, res.Unchanged, res.Skipped)
	return nil
}

func runPublish(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	live := fs.Bool("live", false, "Publish immediately instead of creating a draft")
	fs.Parse(args)
	id, err := parsePlanID(fs)
	if err != nil {
		return err
	}
	post, err := a.PublishPlan(ctx, id, *live)
	if err != nil {
		return err
	}
	fmt.Printf("Created post %s: %s\n", post.ID, post.URL)
	return nil
}

func runMetrics(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	days := fs.Int("days", 7, "Number of days to report")
	fs.Parse(args)

	report, err := a.Report(ctx, *days)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCATEGORY\tBUILDS\tAVG POOL\tSHORT\tAVG MS")
	for _, d := range report.Daily {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%d\t%.1f\n", d.Date, d.Category, d.Builds, d.AvgPoolSize, d.ShortBuilds, d.AvgLatencyMS)
	}
	w.Flush()
	for _, c := range meal.RequiredCategories {
		fmt.Printf("%s: %d meals\n", c.Label(), report.Meals[c])
	}
	fmt.Printf("Saved plans: %d\nDatabase: %s\nExports: %s\n", report.Planned, report.Health.DatabaseSize, report.Health.ExportsSize)
	return nil
}

func runMetricsCleanup(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", 30, "Keep records for the last N days")
	fs.Parse(args)

	affected, err := a.CleanupMetrics(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
	return nil
}
