package checkpointer

import (
	"fmt"
	"os"
)

// nEpisode implements checkpointing to files every N episodes
type nEpisode struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the
	// object in given the number of the episode being checkpointed.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.bin, file2.bin, ..., fileK.bin), then simply use the
	// static function FilenameEnumerator. To keep only the most recent
	// checkpoint, use FileLatest. For example:
	//
	// n := NewNEpisode(10, object, FileLatest("qtable", ".bin"))
	filename func(int) string
}

// NewNEpisode returns a checkpointer that checkpoints every n episodes
func NewNEpisode(n int, object Serializable,
	filename func(int) string) Checkpointer {
	return &nEpisode{
		interval: max(n, 1),
		object:   object,
		filename: filename,
	}
}

// Checkpoint saves the Checkpointer's tracked object if episode is a
// multiple of the checkpointing interval
func (n *nEpisode) Checkpoint(episode int) error {
	if episode%n.interval != 0 {
		return nil
	}

	data, err := Encode(n.object)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	// Replace the previous checkpoint atomically
	filename := n.filename(episode)
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Load restores object from a checkpoint file
func Load(filename string, object Serializable) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return Decode(data, object)
}
