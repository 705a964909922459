package usecase

import (
	"fmt"

	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/pkg/tmplx"
)

// roleSentences is the fixed per-mode role instruction. Keys are the
// closed mode set; nothing else is ever rendered.
var roleSentences = map[models.Mode]string{
	models.ModeCustomer:   "Your role is to assist callers with inquiries about the restaurant, take reservations, and provide information about the menu and services.",
	models.ModeOperations: "Your role is to assist with internal operations, including inventory management, staff scheduling, and kitchen coordination.",
	models.ModeSales:      "Your role is to handle business inquiries, catering requests, and partnership opportunities.",
}

var promptTemplate = tmplx.MustParse("agent_prompt", `You are an AI assistant caller for a restaurant. Your name is {{.BotName}}. You should maintain a {{.Tone}} tone throughout the conversation.

The details of the restaurant are:

Restaurant Name: {{.RestaurantName}}
Seating Capacity: {{.SeatingCapacity}}
Address: {{.Address}}

Menu:
{{.Menu}}

{{.RoleSentence}}

Please use this information to assist callers accurately. If asked about matters outside your domain, politely redirect them to the appropriate department.`)

type promptData struct {
	RestaurantName  string
	SeatingCapacity int
	Address         string
	Menu            string
	BotName         string
	Tone            string
	RoleSentence    string
}

// GeneratePrompt renders the vendor LLM instruction text for one mode.
// Pure and deterministic: identical inputs yield byte-identical output.
func GeneratePrompt(profile *models.UserProfile, mode models.Mode) (string, error) {
	role, ok := roleSentences[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}

	cfg := profile.ModeConfigOf(mode)
	buf, err := promptTemplate.Render(promptData{
		RestaurantName:  profile.RestaurantName,
		SeatingCapacity: profile.SeatingCapacity,
		Address:         profile.Address,
		Menu:            profile.Menu,
		BotName:         cfg.BotName,
		Tone:            cfg.Tone,
		RoleSentence:    role,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
