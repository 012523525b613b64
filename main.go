// Package main provides the entry point for the Collage Studio application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"collage-studio/internal/app"
	"collage-studio/internal/version"
	"collage-studio/ui/mainwindow"
	"collage-studio/ui/prefs"
)

const appTitle = "Collage Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.collagestudio.app")
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// Handle command line arguments
	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := appState.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.ShowAndRun()
}
