package transfer

type CaptionRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Platform string `json:"platform"`
}

type AllCaptionsRequest struct {
	Prompt    string   `json:"prompt" validate:"required"`
	Platforms []string `json:"platforms" validate:"required,min=1"`
}

func (r *CaptionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errPromptRequired
	}
	return nil
}

func (r *AllCaptionsRequest) Validate() error {
	if r.Prompt == "" {
		return errPromptRequired
	}
	if err := validate.Struct(r); err != nil {
		return errNoPlatforms
	}
	return nil
}

var (
	errPromptRequired = invalid("Prompt is required")
	errNoPlatforms    = invalid("At least one platform must be selected")
)
