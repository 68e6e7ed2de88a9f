package dto

// ChannelProfile is the reduced projection returned for GET /users/c/:username.
type ChannelProfile struct {
	FullName                 string `json:"fullName"`
	Username                 string `json:"username"`
	SubscriberCount          int64  `json:"subscriberCount"`
	ChannelSubscribedToCount int64  `json:"channelSubscribedToCount"`
	IsSubscribed             bool   `json:"isSubscribed"`
	AvatarURL                string `json:"avatarUrl"`
	CoverImageURL            string `json:"coverImageUrl"`
	Email                    string `json:"email"`
}

// ToggleResult reports the state of the edge after a toggle.
type ToggleResult struct {
	Subscribed bool `json:"subscribed"`
}
