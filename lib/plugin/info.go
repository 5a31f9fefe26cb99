package plugin

import (
	"sort"

	"github.com/google/uuid"
)

// FunctionInfo describes one published function.
type FunctionInfo struct {
	Name        string
	Help        string
	LibraryID   uuid.UUID
	LibraryPath string
	Plugin      string
}

// LibraryInfo describes a library that still backs at least one function.
type LibraryInfo struct {
	ID        uuid.UUID
	Path      string
	Name      string
	Version   string
	Functions []string
	Refs      int64
}

// Help returns the help text of the function registered under name.
func (m *Manager) Help(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.functions[name]
	if !ok {
		return "", NotFound(name)
	}
	return p.Help(), nil
}

// Len returns the number of published functions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.functions)
}

// Functions lists published functions sorted by name.
func (m *Manager) Functions() []FunctionInfo {
	m.mu.RLock()
	infos := make([]FunctionInfo, 0, len(m.functions))
	for name, p := range m.functions {
		infos = append(infos, FunctionInfo{
			Name:        name,
			Help:        p.Help(),
			LibraryID:   p.lib.ID(),
			LibraryPath: p.lib.Path(),
			Plugin:      p.lib.Name(),
		})
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Libraries lists the libraries backing published functions, sorted by path
// and then by id.
func (m *Manager) Libraries() []LibraryInfo {
	m.mu.RLock()
	byID := make(map[uuid.UUID]*LibraryInfo)
	for name, p := range m.functions {
		info, ok := byID[p.lib.ID()]
		if !ok {
			info = &LibraryInfo{
				ID:      p.lib.ID(),
				Path:    p.lib.Path(),
				Name:    p.lib.Name(),
				Version: p.lib.Version(),
				Refs:    p.lib.Refs(),
			}
			byID[info.ID] = info
		}
		info.Functions = append(info.Functions, name)
	}
	m.mu.RUnlock()

	infos := make([]LibraryInfo, 0, len(byID))
	for _, info := range byID {
		sort.Strings(info.Functions)
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].ID.String() < infos[j].ID.String()
	})
	return infos
}
