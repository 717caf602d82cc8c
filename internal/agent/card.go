package agent

import "github.com/dusk-indust/mocka2a/internal/a2a"

// Defaults of the served agent card.
const (
	DefaultName         = "Mock Test Agent"
	DefaultDescription  = "A mock A2A agent for testing AgentLab integration"
	DefaultVersion      = "1.0.0"
	DefaultOrganization = "AgentLab Test"
)

// DefaultCard returns the agent card advertised at url, with streaming and
// push notifications disabled and the echo and greeting skills.
func DefaultCard(url string) a2a.AgentCard {
	return a2a.AgentCard{
		Name:        DefaultName,
		Description: DefaultDescription,
		URL:         url,
		Version:     DefaultVersion,
		Provider:    &a2a.AgentProvider{Organization: DefaultOrganization},
		Capabilities: a2a.AgentCapabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		Skills: []a2a.AgentSkill{
			{
				ID:          "echo",
				Name:        "Echo",
				Description: "Echoes back any message sent to it",
			},
			{
				ID:          "greeting",
				Name:        "Greeting",
				Description: "Responds with a friendly greeting",
			},
		},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}
}
