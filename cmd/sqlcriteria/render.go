package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/sqlcriteria/internal/bobsql"
	"github.com/pthm/sqlcriteria/internal/cli"
	"github.com/pthm/sqlcriteria/internal/querydoc"
	"github.com/pthm/sqlcriteria/pkg/dsl"
	"github.com/pthm/sqlcriteria/pkg/sqldsl"
)

var errBobDelete = errors.New("the bob renderer only renders select statements")

var (
	renderRenderer        string
	renderCompact         bool
	renderAllowEmptyWhere bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>...",
	Short: "Render query documents as SQL",
	Long: `Replay each query document through the criteria builders and print the
resulting SQL statement. Use "-" to read a document from stdin.`,
	Example: `  # Render a document
  sqlcriteria render queries/active_users.yaml

  # Render on one line with the bob renderer
  sqlcriteria render --renderer bob --compact queries/active_users.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := renderOptions{
			Renderer:        cfg.ResolvedRenderer(renderRenderer),
			Pretty:          cfg.Render.Pretty && !renderCompact,
			AllowEmptyWhere: resolveBool(renderAllowEmptyWhere, cfg.Render.AllowEmptyWhere),
			Headers:         len(args) > 1 && !quiet,
		}
		if err := (&cli.Config{Renderer: opts.Renderer}).Validate(); err != nil {
			return cli.ConfigError("invalid --renderer", err)
		}

		for _, path := range args {
			debugf(cmd.ErrOrStderr(), 1, "rendering %s with the %s renderer", path, opts.Renderer)
			doc, err := loadDocument(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			if err := renderDocument(cmd.Context(), cmd.OutOrStdout(), path, doc, opts); err != nil {
				return err
			}
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate query documents",
	Long:  `Parse each query document and replay it through the criteria builders without rendering.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			doc, err := loadDocument(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			if _, err := doc.Build(); err != nil {
				return cli.RenderError(fmt.Sprintf("building %s", path), err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s from %s)\n", path, doc.Kind(), doc.From)
			}
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderRenderer, "renderer", "", "SQL renderer: text or bob (default from config)")
	renderCmd.Flags().BoolVar(&renderCompact, "compact", false, "print each statement on one line")
	renderCmd.Flags().BoolVar(&renderAllowEmptyWhere, "allow-empty-where", false, "allow DELETE statements without a WHERE clause")
}

type renderOptions struct {
	Renderer        string
	Pretty          bool
	AllowEmptyWhere bool
	Headers         bool
}

func loadDocument(stdin io.Reader, path string) (*querydoc.Document, error) {
	var (
		doc *querydoc.Document
		err error
	)
	if path == "-" {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return nil, cli.GeneralError("reading stdin", readErr)
		}
		doc, err = querydoc.Parse(data)
	} else {
		doc, err = querydoc.Load(path)
	}
	if err != nil {
		if querydoc.IsParseErr(err) || querydoc.IsInvalidErr(err) {
			return nil, cli.DocParseError(fmt.Sprintf("parsing %s", path), err)
		}
		return nil, cli.GeneralError(fmt.Sprintf("loading %s", path), err)
	}
	return doc, nil
}

func renderDocument(ctx context.Context, w io.Writer, path string, doc *querydoc.Document, opts renderOptions) error {
	stmt, err := doc.Build(func(c *dsl.StatementConfig) {
		c.AllowEmptyWhere = c.AllowEmptyWhere || opts.AllowEmptyWhere
	})
	if err != nil {
		return cli.RenderError(fmt.Sprintf("building %s", path), err)
	}

	sql, err := renderStatement(ctx, stmt, opts.Renderer)
	if err != nil {
		return cli.RenderError(fmt.Sprintf("rendering %s", path), err)
	}
	if !opts.Pretty {
		sql = sqldsl.Compact(sql)
	}

	if opts.Headers {
		fmt.Fprintf(w, "-- %s\n", path)
	}
	fmt.Fprintf(w, "%s;\n", sql)
	return nil
}

func renderStatement(ctx context.Context, stmt querydoc.Statement, renderer string) (string, error) {
	if renderer != cli.RendererBob {
		return stmt.Render()
	}
	if stmt.Select == nil {
		return "", errBobDelete
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return bobsql.RenderSelect(ctx, stmt.Select)
}
