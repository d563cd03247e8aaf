package cmd

import (
	"fmt"
	"os"
)

// ConfigShow prints the effective configuration as TOML
func ConfigShow(app *App) {
	fmt.Printf("# %s\n", app.ConfigPath)
	ExitOnError(app.Config.Encode(os.Stdout))
}

// ConfigWrite saves the effective configuration to the config file
func ConfigWrite(app *App) {
	ExitOnError(app.Config.Save(app.ConfigPath))
	fmt.Printf("✓ Wrote %s\n", app.ConfigPath)
}
