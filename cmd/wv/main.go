package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/werklab/wv/internal/catalog"
	"github.com/werklab/wv/internal/display"
	"github.com/werklab/wv/internal/index"
	"github.com/werklab/wv/internal/schema"
	"github.com/werklab/wv/internal/store"
	"github.com/werklab/wv/internal/ui"
	"github.com/werklab/wv/internal/validate"
	"github.com/werklab/wv/internal/xref"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

var (
	noColor  bool
	dataDir  string
	composer string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wv",
		Short: "wv — Werkverzeichnis catalog tool",
		Long:  "A local CLI for querying, sorting, and maintaining a dataset of classical compositions indexed by catalog number (BWV, K., opus, ...).",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Init(noColor)
		},
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: WV_DATA_DIR or nearest dataset)")
	rootCmd.PersistentFlags().StringVarP(&composer, "composer", "p", "", "Composer slug (default: the dataset's only composer)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Query Commands:"},
		&cobra.Group{ID: "data", Title: "Data Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	for _, c := range []*cobra.Command{getCmd(), sortCmd(), sortkeyCmd(), parseCmd(), xrefCmd()} {
		c.GroupID = "query"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{indexCmd(), validateCmd(), newCmd(), addCmd(), doctorCmd()} {
		c.GroupID = "data"
		rootCmd.AddCommand(c)
	}
	configC := configCmd()
	configC.GroupID = "config"
	rootCmd.AddCommand(configC)
	rootCmd.AddCommand(completionCmd(rootCmd))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// engine bundles everything a query needs: the store, the composer's
// compiled scheme registry, and that composer's slice of the index.
type engine struct {
	st       *store.Store
	slug     string
	composer *schema.Composer
	registry *catalog.Registry
	resolver *catalog.Resolver
	view     *index.ComposerView
}

func openStore() (*store.Store, error) {
	return store.Open(dataDir)
}

func openEngine() (*engine, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}

	slug := composer
	if slug == "" {
		slugs, err := st.ComposerSlugs()
		if err != nil {
			return nil, err
		}
		switch len(slugs) {
		case 0:
			return nil, fmt.Errorf("dataset has no composers")
		case 1:
			slug = slugs[0]
		default:
			return nil, fmt.Errorf("dataset has %d composers — pass --composer", len(slugs))
		}
	}

	comp, err := st.LoadComposer(slug)
	if err != nil {
		return nil, fmt.Errorf("unknown composer %q: %w", slug, err)
	}
	defs, err := st.SchemeDefsFor(comp)
	if err != nil {
		return nil, err
	}
	reg, err := catalog.NewRegistry(defs)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(st)
	if err != nil {
		return nil, err
	}
	for _, w := range idx.Warnings {
		ui.Logger.Warn(w)
	}
	view := idx.View(slug)
	if view == nil {
		return nil, fmt.Errorf("composer %q has no indexed works", slug)
	}

	return &engine{
		st:       st,
		slug:     slug,
		composer: comp,
		registry: reg,
		resolver: catalog.NewResolver(reg),
		view:     view,
	}, nil
}

func (e *engine) displayOptions() display.Options {
	return display.Options{
		Language:   e.st.Config.Display.Language,
		KeySymbols: e.st.Config.Display.KeySymbols,
	}
}

func getCmd() *cobra.Command {
	var (
		isRange   bool
		isGroup   bool
		edition   string
		strict    bool
		output    string
		movements bool
	)
	cmd := &cobra.Command{
		Use:   "get <scheme> <number> [end-number]",
		Short: "Look up works by catalog number, range, or group",
		Long: `Look up works by catalog number. A single number is an exact lookup;
--range with two numbers selects every work between them inclusive;
--group selects every work sharing the number's leading component
(group 2 matches op. 2/1..2/3 but not op. 20).

Superseded numbers from older catalog editions resolve to their current
equivalent with a warning. Ranges are strict: superseded numbers are
never silently substituted into range results.`,
		Example: `  wv get bwv 846
  wv get k 300i
  wv get k 300i --strict
  wv get op 2 11 --range
  wv get op 2 --group
  wv get bwv 846 --output json`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}

			var selector catalog.Selector
			switch {
			case isRange:
				if len(args) != 3 {
					return fmt.Errorf("--range needs a start and an end number")
				}
				selector = catalog.Range{Start: args[1], End: args[2]}
			case isGroup:
				selector = catalog.Group{Number: args[1]}
			default:
				if len(args) == 3 {
					return fmt.Errorf("three arguments need --range")
				}
				selector = catalog.Exact{Number: args[1]}
			}

			q := catalog.Query{
				Composer: e.slug,
				Scheme:   args[0],
				Selector: selector,
				Edition:  edition,
			}
			if cmd.Flags().Changed("strict") {
				q.Strict = &strict
			}

			res, err := e.resolver.Resolve(q, e.view)
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				ui.Warning(fmt.Sprintf("%s is superseded, use %s", w.From, w.To))
			}
			if len(res.Entries) == 0 {
				ui.EmptyState("No works found.")
				return nil
			}
			return printEntries(e, args[0], res.Entries, output, movements)
		},
	}
	cmd.Flags().BoolVar(&isRange, "range", false, "Treat the two numbers as an inclusive range")
	cmd.Flags().BoolVar(&isGroup, "group", false, "Select every work in the number's group")
	cmd.Flags().StringVar(&edition, "edition", "", "Resolve the number against a specific catalog edition")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject superseded numbers instead of substituting")
	cmd.Flags().StringVarP(&output, "output", "o", "pretty", "Output format: pretty, terse, ids, or json")
	cmd.Flags().BoolVar(&movements, "movements", false, "Include movement listings")
	return cmd
}

func printEntries(e *engine, schemeID string, entries []catalog.Entry, output string, movements bool) error {
	scheme, err := e.registry.Lookup(schemeID)
	if err != nil {
		return err
	}
	opts := e.displayOptions()

	type jsonEntry struct {
		ID      string             `json:"id"`
		Catalog string             `json:"catalog"`
		Title   string             `json:"title"`
		Key     string             `json:"key,omitempty"`
		Form    string             `json:"form,omitempty"`
		Work    *schema.Composition `json:"work,omitempty"`
	}
	var jsonOut []jsonEntry

	for _, entry := range entries {
		comp, err := e.st.LoadComposition(entry.CompositionID)
		if err != nil {
			return fmt.Errorf("composition %s: %w", entry.CompositionID, err)
		}
		number := display.FormatNumber(scheme, entry.Number.Raw)
		ref := display.FormatCatalog(scheme.Def, scheme.ID, number)
		colls, err := e.st.CollectionsFor(comp.ID)
		if err != nil {
			return err
		}
		title := display.ExpandedTitle(comp, colls, opts)

		switch output {
		case "ids":
			fmt.Println(entry.CompositionID)
		case "terse":
			fmt.Printf("%s\t%s\n", ref, title)
		case "json":
			je := jsonEntry{
				ID:      comp.ID,
				Catalog: ref,
				Title:   title,
				Key:     comp.Key,
				Form:    comp.Form,
			}
			if movements {
				je.Work = comp
			}
			jsonOut = append(jsonOut, je)
		default:
			fmt.Printf("%s  %s\n", ui.Bold(ref), title)
			if comp.Key != "" {
				ui.Detail("key:", display.ExpandKey(comp.Key, opts))
			}
			if comp.Instrumentation != "" {
				ui.Detail("for:", display.TruncateInstrumentation(comp.Instrumentation, 60))
			}
			if movements {
				for i, m := range comp.Movements {
					line := m.Title
					if m.Key != "" {
						line += " (" + display.ExpandKey(m.Key, opts) + ")"
					}
					ui.Detail(fmt.Sprintf("%d.", i+1), line)
				}
			}
		}
	}

	if output == "json" {
		data, err := json.MarshalIndent(jsonOut, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

func sortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <scheme> [number...]",
		Short: "Sort catalog numbers in catalog order",
		Long: "Sort catalog numbers by the scheme's ordering rather than lexicographically:\nBWV 812 before 812a before 813, Hob. III:1 before XVI:6 before XVI:52.\nNumbers come from the arguments, or from stdin one per line.",
		Example: `  wv sort bwv 846 812a 812
  cat numbers.txt | wv sort k`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			scheme, err := e.registry.Lookup(args[0])
			if err != nil {
				return err
			}

			numbers := args[1:]
			if len(numbers) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					line := strings.TrimSpace(scanner.Text())
					if line != "" {
						numbers = append(numbers, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}

			scheme.SortNumbers(numbers)
			for _, n := range numbers {
				fmt.Println(display.FormatNumber(scheme, n))
			}
			return nil
		},
	}
	return cmd
}

func sortkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sortkey <scheme> <number>",
		Short: "Show the sort key of a catalog number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			scheme, err := e.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			key, err := scheme.KeyForRaw(args[1])
			if err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <scheme> <number>",
		Short: "Parse a catalog number and show its components",
		Example: `  wv parse bwv "Anh. 14"
  wv parse hob xvi:52`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			scheme, err := e.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			num, err := scheme.Parse(args[1])
			if err != nil {
				return err
			}

			ui.KeyValue("scheme: ", scheme.ID)
			ui.KeyValue("display:", display.FormatNumber(scheme, num.Raw))
			for i, g := range num.Groups {
				if g == "" {
					g = ui.Dim("(absent)")
				}
				ui.Detail(fmt.Sprintf("group %d:", i+1), g)
			}

			if scheme.Def.HasEditions() {
				res, err := scheme.ResolveEdition(num.Raw, "", false)
				if err != nil {
					return err
				}
				if res.Warning != nil {
					ui.Warning(fmt.Sprintf("superseded: current number is %s", res.Canonical))
				}
			}
			return nil
		},
	}
}

func indexCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the catalog index",
		Long:  "Walk every composition, merge collection attribution, and build the composer/scheme/number index. With --write the index is also rendered to <data-dir>/index/ as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}

			spin := ui.NewSpinner("Indexing compositions...")
			idx, err := index.Build(st)
			spin.Stop()
			if err != nil {
				return err
			}

			for _, w := range idx.Warnings {
				ui.Logger.Warn(w)
			}

			var rows [][]string
			for _, c := range idx.Composers() {
				view := idx.View(c)
				for _, s := range view.Schemes() {
					rows = append(rows, []string{c, s, fmt.Sprintf("%d", len(view.Numbers(s)))})
				}
			}
			ui.Table([]string{"COMPOSER", "SCHEME", "WORKS"}, rows)

			if write {
				if err := idx.Write(st); err != nil {
					return err
				}
				ui.Success("Index written")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Write the index to <data-dir>/index/")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the dataset",
		Long:  "Check every composition file: id and key formats, attribution references, catalog numbers against their scheme patterns, edition alias chains, and sort-key collisions. Exits non-zero when errors are found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			v, err := validate.New(st)
			if err != nil {
				return err
			}

			spin := ui.NewSpinner("Validating dataset...")
			findings, err := v.All()
			if err != nil {
				spin.Stop()
				return err
			}

			// Sort-key collisions need the built index.
			idx, err := index.Build(st)
			spin.Stop()
			if err != nil {
				return err
			}
			for _, slug := range idx.Composers() {
				comp, err := st.LoadComposer(slug)
				if err != nil {
					continue
				}
				defs, err := st.SchemeDefsFor(comp)
				if err != nil {
					return err
				}
				reg, err := catalog.NewRegistry(defs)
				if err != nil {
					return err
				}
				view := idx.View(slug)
				for _, schemeID := range view.Schemes() {
					scheme, err := reg.Lookup(schemeID)
					if err != nil {
						continue
					}
					numbers := make(map[string]string)
					for _, n := range view.Numbers(schemeID) {
						id, _ := view.Lookup(schemeID, n)
						numbers[n] = id
					}
					findings = append(findings, validate.Collisions(scheme, numbers)...)
				}
			}

			errCount := 0
			var frows [][]string
			for _, f := range findings {
				sev := ui.Yellow(f.Severity)
				if f.Severity == "error" {
					errCount++
					sev = ui.Red(f.Severity)
				}
				frows = append(frows, []string{sev, f.Subject, f.Message})
			}
			if len(frows) > 0 {
				ui.SectionHeader("Findings")
				ui.Table([]string{"SEVERITY", "SUBJECT", "MESSAGE"}, frows)
			}
			ui.Logger.Info("validation complete", "errors", errCount, "warnings", len(findings)-errCount)
			if errCount > 0 {
				return fmt.Errorf("%d validation errors", errCount)
			}
			ui.Success(fmt.Sprintf("Dataset valid (%d warnings)", len(findings)))
			return nil
		},
	}
	return cmd
}

func newCmd() *cobra.Command {
	var schemeID, number string
	var edit bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new composition",
		Long:  "Generate a fresh composition id, write a skeleton file, and optionally open it in your editor.",
		Example: `  wv new --composer bach --scheme bwv --number 1080
  wv new --composer mozart --edit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := func() (*engine, error) {
				// new works on datasets that may have no indexed works
				// yet, so resolve the composer without the index.
				st, err := openStore()
				if err != nil {
					return nil, err
				}
				slug := composer
				if slug == "" {
					slugs, err := st.ComposerSlugs()
					if err != nil {
						return nil, err
					}
					if len(slugs) != 1 {
						return nil, fmt.Errorf("pass --composer")
					}
					slug = slugs[0]
				}
				comp, err := st.LoadComposer(slug)
				if err != nil {
					return nil, fmt.Errorf("unknown composer %q: %w", slug, err)
				}
				return &engine{st: st, slug: slug, composer: comp}, nil
			}()
			if err != nil {
				return err
			}

			if number != "" {
				if schemeID == "" {
					schemeID = e.composer.DefaultScheme
				}
				if schemeID == "" {
					return fmt.Errorf("--number needs --scheme (composer has no default scheme)")
				}
				defs, err := e.st.SchemeDefsFor(e.composer)
				if err != nil {
					return err
				}
				reg, err := catalog.NewRegistry(defs)
				if err != nil {
					return err
				}
				scheme, err := reg.Lookup(schemeID)
				if err != nil {
					return err
				}
				if _, err := scheme.Parse(number); err != nil {
					return err
				}
			}

			id, err := e.st.GenerateID()
			if err != nil {
				return err
			}
			ui.Logger.Debug("generated composition id", "id", id)
			comp := store.Scaffold(id, e.slug, schemeID, number)
			if err := e.st.SaveComposition(comp); err != nil {
				return err
			}

			path, _ := e.st.PathForID(id)
			ui.Success("Composition created")
			ui.KeyValue("ID:  ", ui.Bold(id))
			ui.KeyValue("Path:", path)

			if edit {
				editor := store.ResolveEditor(e.st.Config)
				if err := ui.Editor(editor, path); err != nil {
					return fmt.Errorf("editor: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemeID, "scheme", "", "Catalog scheme for the initial reference")
	cmd.Flags().StringVar(&number, "number", "", "Catalog number for the initial reference")
	cmd.Flags().BoolVar(&edit, "edit", false, "Open the new file in your editor")
	return cmd
}

func addCmd() *cobra.Command {
	var edition string
	var force bool
	cmd := &cobra.Command{
		Use:   "add <composition-id> <scheme> <number>",
		Short: "Add a catalog reference to a composition",
		Example: `  wv add ab12cd34 bwv 1080
  wv add ab12cd34 k 300i --edition 6`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			id, schemeID, number := args[0], args[1], args[2]

			scheme, err := e.registry.Lookup(schemeID)
			if err != nil {
				return err
			}
			if _, err := scheme.Parse(number); err != nil {
				return err
			}

			if !e.st.Exists(id) {
				return fmt.Errorf("no composition %s in the dataset", id)
			}
			comp, err := e.st.LoadComposition(id)
			if err != nil {
				return err
			}
			if len(comp.Attribution) == 0 {
				return fmt.Errorf("composition %s has no attribution entries", id)
			}

			entry := &comp.Attribution[0]
			for _, ref := range entry.Catalog {
				if ref.Scheme == scheme.ID && catalog.Normalize(ref.Number) == catalog.Normalize(number) {
					ui.Info(fmt.Sprintf("%s already carries %s %s", id, scheme.ID, number))
					return nil
				}
			}

			if existing, ok := e.view.Lookup(scheme.ID, number); ok && existing != id && !force {
				proceed, err := ui.Confirm(fmt.Sprintf("%s %s already maps to %s. Add anyway?", scheme.ID, number, existing))
				if err != nil {
					return err
				}
				if !proceed {
					ui.Info("Cancelled.")
					return nil
				}
			}

			entry.Catalog = append(entry.Catalog, schema.CatalogEntry{
				Scheme:  scheme.ID,
				Number:  number,
				Edition: edition,
			})
			if err := e.st.SaveComposition(comp); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Added %s %s to %s", scheme.ID, number, id))
			return nil
		},
	}
	cmd.Flags().StringVar(&edition, "edition", "", "Catalog edition that assigned this number")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the duplicate confirmation prompt")
	return cmd
}

func xrefCmd() *cobra.Command {
	var dbPath string
	var dupes bool
	cmd := &cobra.Command{
		Use:   "xref <scheme> [number...]",
		Short: "Cross-reference catalog numbers against MusicBrainz",
		Long:  "Look catalog numbers up in a prepared MusicBrainz SQLite extract. Without numbers, every indexed number of the scheme is checked. --dupes reports MusicBrainz works claimed by more than one number, which usually points at a stale edition alias.",
		Example: `  wv xref bwv 846 847 --db mb.sqlite
  wv xref k --db mb.sqlite --dupes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			scheme, err := e.registry.Lookup(args[0])
			if err != nil {
				return err
			}

			numbers := args[1:]
			if len(numbers) == 0 {
				numbers = e.view.Numbers(scheme.ID)
				scheme.SortNumbers(numbers)
			}

			db, err := xref.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := context.Background()
			name := e.composer.Name.Full
			ui.Status(fmt.Sprintf("Checking %d %s numbers against %s", len(numbers), scheme.ID, dbPath))

			if dupes {
				found, err := db.CheckDuplicates(ctx, name, scheme.Def, scheme.ID, numbers)
				if err != nil {
					return err
				}
				if len(found) == 0 {
					ui.Success("No duplicates")
					return nil
				}
				for _, d := range found {
					ui.Warning(fmt.Sprintf("%s claimed by %s", d.GID, strings.Join(d.Numbers, ", ")))
				}
				return nil
			}

			matches, err := db.LookupBatch(ctx, name, scheme.Def, scheme.ID, numbers)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, m := range matches {
				if len(m.Works) == 0 {
					rows = append(rows, []string{display.FormatNumber(scheme, m.Number), ui.Dim("-"), ui.Dim("no match")})
					continue
				}
				for _, w := range m.Works {
					rows = append(rows, []string{display.FormatNumber(scheme, m.Number), w.GID, w.Title})
				}
			}
			ui.Table([]string{"NUMBER", "MBID", "TITLE"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the MusicBrainz SQLite extract")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&dupes, "dupes", false, "Report works claimed by multiple numbers")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit wv configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configGetCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			ui.KeyValue("data_dir:           ", cfg.DataDir)
			ui.KeyValue("editor:             ", cfg.Editor)
			ui.KeyValue("display.language:   ", cfg.Display.Language)
			ui.KeyValue("display.key_symbols:", cfg.Display.KeySymbols)
			return nil
		},
	}
}

func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := store.GetConfigValue(args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a wv configuration value. Valid keys: data_dir, editor, display.language, display.key_symbols.",
		Example: `  wv config set data_dir ~/music/werkdata
  wv config set display.language de
  wv config set display.key_symbols ascii`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.SetConfigValue(args[0], args[1]); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check dataset structure health",
		Long:  "Verify the data directory layout and that every JSON file parses. Use 'wv validate' for the semantic checks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}

			issues := store.CheckHealth(st.DataDir)
			if fix {
				for _, f := range store.FixIssues(st.DataDir) {
					ui.Success(f)
				}
				issues = store.CheckHealth(st.DataDir)
			}

			if len(issues) == 0 {
				ui.Success("Dataset structure healthy")
				ui.Detail("status:", ui.Green("ok"))
				ui.Detail("data dir:", st.DataDir)
				return nil
			}

			sort.Slice(issues, func(i, j int) bool { return issues[i].Severity < issues[j].Severity })
			errors := 0
			for _, issue := range issues {
				if issue.Severity == "error" {
					errors++
					ui.Error(issue.Message)
				} else {
					ui.Warning(issue.Message)
				}
			}
			if errors > 0 {
				return fmt.Errorf("%d structural errors", errors)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Repair what can be repaired automatically")
	return cmd
}

func completionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			}
			return fmt.Errorf("unsupported shell: %s", args[0])
		},
	}
}
