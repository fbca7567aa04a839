package models

// ConsentModel is the local state of the consent modal overlay.
type ConsentModel struct {
	Visible        bool
	Cursor         int  // Index of the focused checkbox / button
	TermsChecked   bool // Required: no personal data, general guidance only
	PrivacyChecked bool // Required: privacy notice acknowledged
	Analytics      bool // Optional: analytics consent
	RequestID      string
}

// Required reports whether every mandatory checkbox is ticked.
func (c ConsentModel) Required() bool {
	return c.TermsChecked && c.PrivacyChecked
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages     []DisplayMessage // Current messages to display
	Input        string           // User input field
	Placeholder  string           // Input placeholder, changes with the stage
	InputLocked  bool             // True once the conversation is closed
	Status       string           // Status bar text
	Loading      bool             // Loading state from core
	LoadingDots  int              // Animation counter for loading dots
	Width        int              // Terminal width
	Height       int              // Terminal height
	ServiceReady bool             // Whether the triage service is available
	Consent      ConsentModel     // Consent modal overlay
	NoticeOpen   bool             // First-interaction notice overlay
	ContactURL   string           // WhatsApp handoff link shown when closed
}
