package dashboard

// Reduce returns the state after applying a. It never mutates s in place:
// slices it changes are copied.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetData:
		if a.Gen < s.RefreshGen {
			return s
		}
		return setData(s, a)
	case Select:
		s.Selected = clampIndex(a.Index, len(s.Flat))
		s.DetailScroll = 0
	case ScrollList:
		s.ListScroll = max(0, a.Offset)
	case ScrollDetail:
		s.DetailScroll = max(0, a.Offset)
	case RefreshStart:
		s.Refreshing = true
		s.RefreshGen++
	case RefreshDone:
		s.Refreshing = false
	case SetError:
		if a.Gen < s.RefreshGen {
			return s
		}
		s.Error = a.Err
		s.Loading = false
		s.Refreshing = false
	case SetOverlay:
		s = clearOverlay(s)
		s.Overlay = a.Overlay
		switch a.Overlay {
		case OverlayModeSelect:
			s.ModeSelect = a.ModeSelect
		case OverlayConfirmDelete:
			s.ConfirmDelete = a.ConfirmDelete
		}
	case SetActionMessage:
		if a.Text == "" && a.Expire != 0 {
			if a.Expire == s.ActionID {
				s.ActionMessage = ""
				s.ActionIsError = false
			}
			return s
		}
		s.ActionMessage = a.Text
		s.ActionIsError = a.IsError
		s.ActionID++
	case CreationStart:
		s.CreatingFor = a.TicketID
		s.CreationLog = nil
	case CreationLog:
		s.CreationLog = appendCapped(s.CreationLog, a.Line, MaxCreationLog)
	case CreationDone:
		s.CreatingFor = ""
		s.CreationLog = nil
	case CreationError:
		s.CreatingFor = ""
		s.CreationLog = nil
		s.ActionMessage = a.Err
		s.ActionIsError = true
		s.ActionID++
	case DeleteStart:
		s.DeletingFor = a.TicketID
	case DeleteDone:
		s.DeletingFor = ""
	case CommitStart:
		s = clearOverlay(s)
		s.Overlay = OverlayCommit
		s.Commit = Commit{
			Phase:    CommitConfirmStage,
			TicketID: a.TicketID,
			Branch:   a.Branch,
			Worktree: a.Worktree,
			Status:   a.Status,
		}
	case CommitPhaseChange:
		if s.Overlay != OverlayCommit {
			return s
		}
		s.Commit.Phase = a.Phase
		if a.Status != "" {
			s.Commit.Status = a.Status
		}
		if a.Phase == CommitAwaitingMessage && s.Commit.Message == "" {
			s.Commit.Message = "[" + s.Commit.TicketID + "] "
		}
	case CommitMessage:
		if s.Overlay != OverlayCommit || s.Commit.Phase != CommitAwaitingMessage {
			return s
		}
		msg := NormalizeCommitMessage(s.Commit.TicketID, a.Message)
		if msg == "["+s.Commit.TicketID+"]" {
			s.Commit.Err = ErrEmptyCommitMessage
			return s
		}
		s.Commit.Message = msg
		s.Commit.Err = ""
		s.Commit.Phase = CommitCommitting
	case CommitError:
		if s.Overlay != OverlayCommit {
			return s
		}
		s.Commit.Phase = CommitPhaseError
		s.Commit.Err = a.Err
	case CommitDone:
		if s.Overlay != OverlayCommit {
			return s
		}
		s.Commit.Phase = CommitPhaseDone
		s.Commit.Err = ""
	case CommitCancel:
		if s.Overlay != OverlayCommit || s.Commit.Phase.InFlight() {
			return s
		}
		s = clearOverlay(s)
	case PRCreateStart:
		s = clearOverlay(s)
		s.Overlay = OverlayPRCreate
		s.PRCreate = PRCreate{
			Phase:    PRChooseMode,
			TicketID: a.TicketID,
			Branch:   a.Branch,
			Worktree: a.Worktree,
		}
	case PRCreatePhase:
		if s.Overlay != OverlayPRCreate {
			return s
		}
		s.PRCreate.Phase = a.Phase
		s.PRCreate.Err = ""
	case PRCreateError:
		if s.Overlay != OverlayPRCreate {
			return s
		}
		s.PRCreate.Phase = PRError
		s.PRCreate.Err = a.Err
	case PRCreateDone:
		if s.Overlay != OverlayPRCreate {
			return s
		}
		s.PRCreate.Phase = PRDone
		s.PRCreate.URL = a.URL
	case PRCreateCancel:
		if s.Overlay != OverlayPRCreate || s.PRCreate.Phase.InFlight() {
			return s
		}
		s = clearOverlay(s)
	}
	return s
}

func setData(s State, a SetData) State {
	prevID := ""
	if is, ok := s.SelectedIssue(); ok {
		prevID = is.Ticket.ID
	}
	s.Groups = a.Data.Groups
	s.Flat = a.Data.Flat
	s.Loading = false
	s.Refreshing = false
	s.Error = ""
	s.LastRefresh = a.At

	idx := -1
	if prevID != "" {
		idx = indexOf(s.Flat, prevID)
	}
	if idx < 0 {
		s.Selected = 0
		s.DetailScroll = 0
	} else {
		s.Selected = idx
	}
	return s
}

// clearOverlay closes the overlay and resets every overlay-local field.
func clearOverlay(s State) State {
	s.Overlay = OverlayNone
	s.ModeSelect = ModeSelect{}
	s.ConfirmDelete = ConfirmDelete{}
	s.Commit = Commit{}
	s.PRCreate = PRCreate{}
	return s
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func appendCapped(lines []string, line string, limit int) []string {
	out := make([]string, 0, min(len(lines)+1, limit))
	if drop := len(lines) + 1 - limit; drop > 0 {
		lines = lines[drop:]
	}
	out = append(out, lines...)
	return append(out, line)
}
