package options

import (
	"github.com/spf13/cobra"
)

// LocationOptions
type LocationOptions struct {
	Latitude  float64
	Longitude float64
}

func AddLocationArgs(cmd *cobra.Command, o *LocationOptions) {
	cmd.Flags().Float64Var(&o.Latitude, "lat", 0,
		"Latitude to fetch the forecast for.")
	cmd.Flags().Float64Var(&o.Longitude, "lon", 0,
		"Longitude to fetch the forecast for.")
}

// Provided reports whether the user passed an explicit position.
func (o *LocationOptions) Provided() bool {
	return o.Latitude != 0 || o.Longitude != 0
}
