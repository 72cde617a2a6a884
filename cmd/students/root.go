package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/mysql"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records/internal/types"
)

// app carries what every subcommand needs once the root command has run
// its PersistentPreRunE.
type app struct {
	configPath string

	cfg   *config.Config
	log   zerolog.Logger
	store storage.Storage
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "students",
		Short:         "Manage student records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML configuration file")

	root.AddCommand(
		a.createCmd(),
		a.getCmd(),
		a.listCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = setupLogger(cfg.Env, logOut)

	a.store, err = openStorage(cfg.Database, a.log)
	return err
}

// openStorage picks the backend named by the configured driver.
func openStorage(cfg config.Database, log zerolog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Path, log)
	case config.DriverMySQL:
		return mysql.New(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <national-id> <age>",
		Short: "Insert a student and print the generated id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := parseInt("age", args[2])
			if err != nil {
				return err
			}

			id, err := a.store.CreateStudent(args[0], args[1], int(age))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "student created, id: %d\n", id)
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt("id", args[0])
			if err != nil {
				return err
			}

			student, err := a.store.GetStudentByID(id)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "student not found")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), student)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			students, err := a.store.GetStudents()
			if err != nil {
				return err
			}

			for _, s := range students {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <name> <national-id> <age>",
		Short: "Replace every field of a student",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt("id", args[0])
			if err != nil {
				return err
			}
			age, err := parseInt("age", args[3])
			if err != nil {
				return err
			}

			n, err := a.store.UpdateStudentByID(id, types.Student{
				Name:       args[1],
				NationalID: args[2],
				Age:        int(age),
			})
			if err != nil {
				return err
			}

			report(cmd.OutOrStdout(), n, "student updated")
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt("id", args[0])
			if err != nil {
				return err
			}

			n, err := a.store.DeleteStudentByID(id)
			if err != nil {
				return err
			}

			report(cmd.OutOrStdout(), n, "student deleted")
			return nil
		},
	}
}

func report(w io.Writer, rows int64, success string) {
	if rows == 0 {
		fmt.Fprintln(w, "student not found")
		return
	}
	fmt.Fprintln(w, success)
}

func parseInt(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, s)
	}
	return v, nil
}
