package component

// Name labels an entity for scripts and logs.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// PrefabStatus tells an editable instance from the asset it comes from.
type PrefabStatus int

const (
	RegularObject PrefabStatus = iota
	PrefabInstance
	PrefabAsset
)

type Prefab struct {
	Status PrefabStatus
	Source string
}

var PrefabComponent = NewComponent[Prefab]()
