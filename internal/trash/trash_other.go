//go:build !linux && !darwin

package trash

func getPath() string { return "" }
func isAvailable() bool { return false }
func moveToTrash(string) error { return ErrUnavailable }
func list() ([]Item, error) { return nil, ErrUnavailable }
func empty() error { return ErrUnavailable }
func deleteItem(Item) error { return ErrUnavailable }
