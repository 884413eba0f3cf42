package storage

// AppendCommandToHistory appends a command history record for a guild,
// keeping only the most recent commandHistoryLimit entries.
func (s *Storage) AppendCommandToHistory(guildID string, rec CommandHistoryRecord) error {
	history, err := s.FetchCommandHistory(guildID)
	if err != nil {
		return err
	}
	history = append(history, rec)
	if len(history) > commandHistoryLimit {
		history = history[len(history)-commandHistoryLimit:]
	}
	s.ds.Add("history:"+guildID, history)
	return nil
}

// FetchCommandHistory returns the stored history for a guild, oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	value, ok := s.ds.Get("history:" + guildID)
	if !ok {
		return nil, nil
	}
	var history []CommandHistoryRecord
	if err := decode(value, &history); err != nil {
		return nil, err
	}
	return history, nil
}
