package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/snaptodo/internal/store/jsonstore"
	"github.com/idilsaglam/snaptodo/internal/ui"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words, or \"\")",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: todo add <title...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			s.ctrl.AddTodo(strings.Join(args, " "))
			if err := s.close(); err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK("added")
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    exactArgs(0, "todo ls"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}

			t := ui.Current()
			header := fmt.Sprintf("%s  %s %d",
				ui.C(t.Title, "Todos"),
				ui.C(t.Accent, "Total"), len(items),
			)
			lines := []string{header, ""}
			lines = append(lines, ui.TodoLines(items)...)
			lines = append(lines, "")
			lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
			ui.Panel(lines)
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove the item with the given id (see `todo ls`)",
		Args:  exactArgs(1, "todo rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil {
				return usagef("rm: not a number: %s", args[0])
			}

			s, err := app.openSession(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.store.List(cmd.Context())
			if err != nil {
				_ = s.close()
				return fmt.Errorf("load: %w", err)
			}
			if !findTodo(items, id) {
				_ = s.close()
				return usagef("no item with id %d (run `todo ls` to see valid ids)", id)
			}
			s.ctrl.DeleteTodo(id)
			if err := s.close(); err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK("removed")
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all items to a JSON file (default " + jsonstore.DefaultFileName + ")",
		Args:  rangeArgs(0, 1, "todo export [file]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := jsonstore.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			if err := jsonstore.Save(path, items); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			ui.OK(fmt.Sprintf("exported %d items to %s", len(items), path))
			return nil
		},
	}
}

// import keeps titles and creation times; ids are assigned by the database.
func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Append items from a JSON file written by export",
		Args:  rangeArgs(0, 1, "todo import [file]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := jsonstore.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			items, err := jsonstore.Load(path)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			for _, it := range items {
				if err := st.Insert(cmd.Context(), it.Title, it.CreatedAt); err != nil {
					return fmt.Errorf("import: %w", err)
				}
			}
			log.Info().Int("count", len(items)).Str("file", path).Msg("imported items")
			ui.OK(fmt.Sprintf("imported %d items", len(items)))
			return nil
		},
	}
}
