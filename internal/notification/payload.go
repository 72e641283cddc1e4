package notification

type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Payload is the JSON the browser service worker reads on a push event.
type Payload struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	URL     string   `json:"url,omitempty"`
	Tag     string   `json:"tag,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

var DefaultActions = []Action{
	{Action: "view", Title: "Ver"},
	{Action: "dismiss", Title: "Dispensar"},
}

func NewPayload(title, body, url, tag string) Payload {
	return Payload{
		Title:   title,
		Body:    body,
		URL:     url,
		Tag:     tag,
		Actions: DefaultActions,
	}
}
