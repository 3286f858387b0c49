package v1

const (
	defaultPrimary    = "#00897B"
	defaultSecondary  = "#FFA000"
	defaultBackground = "#ECEFF1"
	defaultPaper      = "#FFFFFF"
)

// Theme is a viewer palette.
type Theme struct {
	Primary    string `json:"primary" envconfig:"optional"`
	Secondary  string `json:"secondary" envconfig:"optional"`
	Background string `json:"background" envconfig:"optional"`
	Paper      string `json:"paper" envconfig:"optional"`
}

// SetDefault returns a copy of theme with filled empty colours.
func (t *Theme) SetDefault() *Theme {
	themeCopy := *t

	if themeCopy.Primary == "" {
		themeCopy.Primary = defaultPrimary
	}

	if themeCopy.Secondary == "" {
		themeCopy.Secondary = defaultSecondary
	}

	if themeCopy.Background == "" {
		themeCopy.Background = defaultBackground
	}

	if themeCopy.Paper == "" {
		themeCopy.Paper = defaultPaper
	}

	return &themeCopy
}
