package options

import "github.com/spf13/cobra"

// AddOptions
type AddOptions struct {
	Title     string
	Note      string
	Text      string
	OnString  string
	AtString  string
	EndString string
	Category  string
	AllDay    bool
	Voice     string
}

func AddEventArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "today",
		`Date of the event, for example --on="2026-02-28" or --on=tomorrow.`)
	cmd.Flags().StringVar(&o.AtString, "at", "",
		`Start time of the event, for example --at="14:30".`)
	cmd.Flags().StringVar(&o.EndString, "end", "",
		`End time of the event, for example --end="15:30".`)
	cmd.Flags().StringVarP(&o.Category, "category", "c", "Personal",
		"Category: School, Work, Personal, or Other.")
	cmd.Flags().BoolVar(&o.AllDay, "all-day", false,
		"Make this an all-day event.")
	cmd.Flags().StringVar(&o.Note, "note", "",
		"Attach a short note to the event.")
}

func AddTaskArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVarP(&o.Category, "category", "c", "important",
		"Section: important, not_important, or reminder.")
}

func AddNoteArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVarP(&o.Title, "title", "t", "",
		"Title for the note.")
	cmd.Flags().StringVar(&o.Voice, "voice", "",
		"Path to an audio recording to attach as a voice note.")
}
