package handlers

// UserInfo is the user shape returned on login.
type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// RegisterRequest is the request body for registering a user.
type RegisterRequest struct {
	Body struct {
		Email    string `doc:"Account email"                example:"alice@example.com" json:"email"`
		Password string `doc:"Password, at least 6 characters" example:"hunter22"        json:"password"`
	}
}

// RegisterResponse confirms a successful registration.
type RegisterResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Body struct {
		Email    string `doc:"Account email" example:"alice@example.com" json:"email"`
		Password string `doc:"Password"      example:"hunter22"          json:"password"`
	}
}

// LoginResponse carries the signed token on successful login.
type LoginResponse struct {
	Body struct {
		Message string   `json:"message"`
		Token   string   `json:"token"`
		User    UserInfo `json:"user"`
	}
}

// LinktreeSummary is the linktree shape returned from list endpoints.
type LinktreeSummary struct {
	ID     int64  `json:"id"`
	Suffix string `json:"linktreeSuffix"`
}

// LinkItem is the link shape shared by management and public responses.
type LinkItem struct {
	ID   int64  `json:"id"`
	Text string `json:"link_text"`
	URL  string `json:"link_url"`
}

// ListLinktreesResponse lists the current user's linktrees.
type ListLinktreesResponse struct {
	Body struct {
		Linktrees []LinktreeSummary `json:"linktrees"`
	}
}

// CreateLinktreeRequest is the request body for creating a linktree.
type CreateLinktreeRequest struct {
	Body struct {
		Suffix string `doc:"Public suffix, 3-20 chars of [a-z0-9-]" example:"my-links" json:"linktreeSuffix"`
	}
}

// CreateLinktreeResponse confirms a created linktree.
type CreateLinktreeResponse struct {
	Body struct {
		ID      int64  `json:"id"`
		Suffix  string `json:"linktreeSuffix"`
		Message string `json:"message"`
	}
}

// GetLinktreeRequest identifies a linktree owned by the current user.
type GetLinktreeRequest struct {
	LinktreeID int64 `doc:"Linktree id" example:"1" path:"linktreeId"`
}

// GetLinktreeResponse is a single linktree with its links.
type GetLinktreeResponse struct {
	Body struct {
		ID     int64      `json:"id"`
		Suffix string     `json:"linktreeSuffix"`
		Links  []LinkItem `json:"links"`
	}
}

// DeleteLinktreeRequest identifies a linktree to delete.
type DeleteLinktreeRequest struct {
	LinktreeID int64 `doc:"Linktree id" example:"1" path:"linktreeId"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// CreateLinkRequest adds a link to a linktree.
type CreateLinkRequest struct {
	LinktreeID int64 `doc:"Linktree id" example:"1" path:"linktreeId"`
	Body       struct {
		Text string `doc:"Display text" example:"My site"               json:"linkText"`
		URL  string `doc:"Target URL"   example:"https://example.com"   json:"linkUrl"`
	}
}

// UpdateLinkRequest updates a link inside a linktree.
type UpdateLinkRequest struct {
	LinktreeID int64 `doc:"Linktree id" example:"1" path:"linktreeId"`
	LinkID     int64 `doc:"Link id"     example:"1" path:"linkId"`
	Body       struct {
		Text string `doc:"Display text" example:"My site"             json:"linkText"`
		URL  string `doc:"Target URL"   example:"https://example.com" json:"linkUrl"`
	}
}

// DeleteLinkRequest removes a link from a linktree.
type DeleteLinkRequest struct {
	LinktreeID int64 `doc:"Linktree id" example:"1" path:"linktreeId"`
	LinkID     int64 `doc:"Link id"     example:"1" path:"linkId"`
}

// LinksResponse confirms a link mutation and returns the updated list.
type LinksResponse struct {
	Body struct {
		Message string     `json:"message"`
		Links   []LinkItem `json:"links"`
	}
}

// PublicLinktreeRequest identifies a linktree by public suffix (management
// side; consumed by the public service).
type PublicLinktreeRequest struct {
	Suffix string `doc:"Public suffix" example:"alice" path:"suffix"`
}

// PublicLookupRequest identifies a linktree by public suffix (public service).
type PublicLookupRequest struct {
	Suffix string `doc:"Public suffix" example:"alice" path:"linktreeSuffix"`
}

// PublicLinktreeResponse is the public snapshot of a linktree.
type PublicLinktreeResponse struct {
	Body struct {
		Suffix string     `json:"linktreeSuffix"`
		Links  []LinkItem `json:"links"`
	}
}
