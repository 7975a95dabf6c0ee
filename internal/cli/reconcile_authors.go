package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/tasks"
)

// ReconcileAuthorsCommand removes authors that no longer have any books.
type ReconcileAuthorsCommand struct {
	DatabasePath string
	Out          io.Writer
}

func NewReconcileAuthorsCommand() *ReconcileAuthorsCommand {
	return &ReconcileAuthorsCommand{Out: os.Stdout}
}

func (cmd *ReconcileAuthorsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reconcile-authors", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reconcile-authors [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete every author that has no books left.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ReconcileAuthorsCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := catalog.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()
	ctx := context.Background()

	books, authors, err := repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog stats: %w", err)
	}
	fmt.Fprintf(cmd.Out, "Catalog: %d books, %d authors\n", books, authors)

	removed, err := tasks.ReconcileOrphanAuthors(ctx, repo, auditService)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Removed %d orphan authors\n", removed)
	return nil
}
