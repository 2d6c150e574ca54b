package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/sifter/pkg/definition"
	"github.com/arthur-debert/sifter/pkg/errors"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:     "init <file>",
		Short:   MsgInitShort,
		Example: MsgInitExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := initFormat(format, path)
			if err != nil {
				return err
			}

			exists, err := afero.Exists(a.fs, path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot check %s", path)
			}
			if exists && !force {
				return errors.Newf(errors.ErrAlreadyExists, MsgFileExists, path)
			}

			content, err := definition.Scaffold(f)
			if err != nil {
				return err
			}
			if err := afero.WriteFile(a.fs, path, content, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgFileCreated, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", MsgFlagFormat)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

func initFormat(flag, path string) (definition.Format, error) {
	switch flag {
	case "":
		return definition.FormatFromPath(path)
	case string(definition.FormatTOML):
		return definition.FormatTOML, nil
	case string(definition.FormatYAML), "yml":
		return definition.FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, MsgUnknownFormat, flag)
	}
}
