package domain

// The campaign lifecycle:
//
//	draft     -> scheduled, sending, cancelled
//	scheduled -> sending, draft, cancelled
//	sending   -> completed, paused
//	paused    -> sending, cancelled
//	completed, cancelled: terminal
//
// The backend is the final arbiter; these guards exist so illegal operations
// never reach the network and so the UI can decide which actions to present.

var transitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:     {CampaignScheduled, CampaignSending, CampaignCancelled},
	CampaignScheduled: {CampaignSending, CampaignDraft, CampaignCancelled},
	CampaignSending:   {CampaignCompleted, CampaignPaused},
	CampaignPaused:    {CampaignSending, CampaignCancelled},
	CampaignCompleted: {},
	CampaignCancelled: {},
}

// CanTransition reports whether a campaign may move from one status to
// another. Unknown statuses permit nothing.
func CanTransition(from, to CampaignStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CanEdit reports whether campaign content may still be modified.
func CanEdit(s CampaignStatus) bool {
	return s == CampaignDraft || s == CampaignScheduled
}

// CanSend reports whether a send may be triggered.
func CanSend(s CampaignStatus) bool {
	return s == CampaignDraft || s == CampaignScheduled
}

// CanDelete reports whether the campaign may be deleted. Deleting while
// actively sending would orphan the in-flight job, so that one status is
// excluded; everything else, terminal states included, is deletable.
func CanDelete(s CampaignStatus) bool {
	return s != CampaignSending
}
