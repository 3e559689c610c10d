// Package analytics records storefront interaction events. Events go to
// the process log; a real pipeline can tail them from there.
package analytics

import (
	"encoding/json"
	"log"
)

// Event names mirror the storefront's interaction vocabulary.
type Event string

const (
	AdvisorOpened         Event = "AdvisorOpened"
	AdvisorTurnCompleted  Event = "AdvisorTurnCompleted"
	AdvisorTurnFailed     Event = "AdvisorTurnFailed"
	RecommendationServed  Event = "RecommendationServed"
	RecommendationClicked Event = "RecommendationClicked"
	DiscoveryOpened       Event = "DiscoveryOpened"
	CompareClicked        Event = "CompareClicked"
)

// Log writes one analytics event with optional structured fields.
func Log(event Event, fields map[string]any) {
	if len(fields) == 0 {
		log.Printf("[analytics] %s", event)
		return
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		log.Printf("[analytics] %s (unencodable fields: %v)", event, err)
		return
	}
	log.Printf("[analytics] %s %s", event, payload)
}
