// Package analysis asks a language model how useful an item report's
// description is and relays the model's JSON answer.
package analysis

import (
	"fmt"
	"strings"
)

// ModePredict asks the model to also write a full description.
const ModePredict = "predict"

// Request is the body accepted by the analysis endpoint.
type Request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ItemType    string `json:"itemType"`
	Mode        string `json:"mode,omitempty"`
}

const notProvided = "Not provided"

// BuildPrompt renders the instruction sent to the model for r.
func BuildPrompt(r Request) string {
	title := r.Title
	if title == "" {
		title = notProvided
	}
	description := r.Description
	if description == "" {
		description = notProvided
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI assistant helping students write better lost and found item posts. "+
		"Analyze the following %s item details and provide:\n\n", r.ItemType)
	b.WriteString("1. A strength score (0-100) indicating how detailed and helpful the post is\n")
	b.WriteString("2. Specific suggestions to improve findability\n")
	b.WriteString("3. What's missing or could be better\n\n")
	fmt.Fprintf(&b, "Title: %q\n", title)
	fmt.Fprintf(&b, "Description: %q\n\n", description)

	b.WriteString("Respond in JSON format:\n{\n")
	b.WriteString("  \"score\": <number 0-100>,\n")
	b.WriteString("  \"suggestions\": [\"suggestion1\", \"suggestion2\", ...],\n")
	b.WriteString("  \"strengths\": [\"strength1\", \"strength2\", ...],\n")
	if r.Mode == ModePredict {
		b.WriteString("  \"missingDetails\": [\"detail1\", \"detail2\", ...],\n")
		b.WriteString("  \"predictedDescription\": \"<a complete description>\"\n}\n\n")
	} else {
		b.WriteString("  \"missingDetails\": [\"detail1\", \"detail2\", ...]\n}\n\n")
	}

	b.WriteString("Consider these factors:\n")
	b.WriteString("- Does the title include key identifiers (brand, color, model)?\n")
	b.WriteString("- Does the description mention distinctive features?\n")
	b.WriteString("- Is the location specific enough?\n")
	b.WriteString("- Are there unique identifying marks or characteristics?\n")
	b.WriteString("- Is the information clear and concise?\n\n")

	b.WriteString("Score guidelines:\n")
	b.WriteString("- 0-30: Very basic, missing crucial details\n")
	b.WriteString("- 31-60: Some details but needs improvement\n")
	b.WriteString("- 61-80: Good details, minor improvements possible\n")
	b.WriteString("- 81-100: Excellent, comprehensive details")

	if r.Mode == ModePredict {
		b.WriteString("\n\nAlso write \"predictedDescription\": a complete, well-structured description " +
			"of this item based on the title and any details given, suitable for posting as is. " +
			"Do not invent serial numbers or owner names.")
	}
	return b.String()
}
