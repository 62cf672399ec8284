package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
	"github.com/randalmurphal/condfmt/pkg/condfmt/observability"
)

// templateArg compiles the TEMPLATE argument, or fetches the template
// named by --name from the library.
func templateArg(cmd *cobra.Command, lib *condfmt.Library, name string, args []string) (*condfmt.Template, error) {
	switch {
	case name != "" && len(args) > 0:
		return nil, errors.New("give either a TEMPLATE argument or --name, not both")
	case name != "":
		return lib.Get(name)
	case len(args) == 1:
		return lib.Constructor().CompileContext(cmd.Context(), args[0])
	default:
		return nil, errors.New("missing TEMPLATE argument or --name")
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "render [TEMPLATE]",
		Short: "Render a template with the given parameters",
		Example: `  condfmt render '%user:title%{ <%email%>}' -p user=ann
  condfmt render --config condfmt.yaml --name greeting`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lib, err := a.open()
			if err != nil {
				return err
			}
			defer lib.Close()

			tmpl, err := templateArg(cmd, lib, name, args)
			if err != nil {
				return err
			}

			id := uuid.New().String()
			logger := observability.EnrichLogger(a.logger, id)
			logger.Info("rendering template", slog.String("name", name), slog.Int("tokens", len(tmpl.Tokens())))

			out, err := tmpl.Execute(cmd.Context(), nil, condfmt.WithRenderID(id))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "render the stored or configured template NAME")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "inspect [TEMPLATE]",
		Short: "Print the compiled token tree of a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lib, err := a.open()
			if err != nil {
				return err
			}
			defer lib.Close()

			tmpl, err := templateArg(cmd, lib, name, args)
			if err != nil {
				return err
			}
			return tmpl.Dump(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "inspect the stored or configured template NAME")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [TEMPLATE...]",
		Short: "Compile templates and report errors",
		Long: `check compiles each TEMPLATE argument. Without arguments it compiles every
template in the settings file and every template in the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			ctor, err := a.constructor(s)
			if err != nil {
				return err
			}

			type target struct{ label, src string }
			var targets []target
			for _, src := range args {
				targets = append(targets, target{src, src})
			}
			if len(args) == 0 {
				for _, name := range sortedKeys(s.Templates) {
					targets = append(targets, target{name, s.Templates[name]})
				}
			}

			w := cmd.OutOrStdout()
			failed := 0
			report := func(label string, err error) {
				if err != nil {
					failed++
					fmt.Fprintf(w, "FAIL %s: %v\n", label, err)
					return
				}
				fmt.Fprintf(w, "ok   %s\n", label)
			}

			for _, t := range targets {
				_, err := ctor.CompileContext(cmd.Context(), t.src)
				report(t.label, err)
			}

			if len(args) == 0 {
				st, err := a.store()
				if err != nil {
					return err
				}
				lib := condfmt.NewLibrary(ctor, st)
				defer lib.Close()
				names, err := lib.Names()
				if err != nil {
					return err
				}
				for _, name := range names {
					_, err := lib.Get(name)
					report(name, err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d template(s) failed to compile", failed)
			}
			return nil
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put NAME TEMPLATE",
		Short: "Validate a template and store it under NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lib, err := a.open()
			if err != nil {
				return err
			}
			defer lib.Close()

			if _, err := lib.Put(args[0], args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
			return err
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored and configured templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, lib, err := a.open()
			if err != nil {
				return err
			}
			defer lib.Close()

			names, err := lib.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(args[0])
		},
	}
}
