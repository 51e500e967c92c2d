package importcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importDirectoryMessageType = "cms.ui.importer.import_directory"

// ImportDirectoryCommand imports the markdown tree under Directory as
// document nodes. Workspace and Site override the configured targets when
// set.
type ImportDirectoryCommand struct {
	Directory string `json:"directory"`
	Workspace string `json:"workspace,omitempty"`
	Site      string `json:"site,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("cms.ui.importer.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
