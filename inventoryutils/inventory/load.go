// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

type itemList struct {
	Items []json.RawMessage `json:"items"`
}

type itemKind struct {
	Kind string `json:"kind"`
}

// LoadItems builds the items declared in a YAML or JSON document of the form
//
//	items:
//	- kind: hdd
//	  name: Seagate Barracuda
//	  total: 10
//	  ...
//
// Every item goes through its validating constructor, so the first invalid
// item aborts the load with the same error its constructor returns. A missing
// numeric field is reported as a type mismatch.
func LoadItems(data []byte) ([]Item, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert items document: %w", err)
	}

	var list itemList
	if err := json.Unmarshal(jsonData, &list); err != nil {
		return nil, fmt.Errorf("failed to decode items document: %w", err)
	}

	items := make([]Item, 0, len(list.Items))
	for i, raw := range list.Items {
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func decodeItem(raw json.RawMessage) (Item, error) {
	var kind itemKind
	if err := json.Unmarshal(raw, &kind); err != nil {
		return nil, err
	}

	category, err := ParseCategory(kind.Kind)
	if err != nil {
		return nil, err
	}

	switch category {
	case CategoryResource:
		var spec ResourceSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, err
		}
		return NewResource(spec)
	case CategoryCPU:
		var spec CPUSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, err
		}
		return NewCPU(spec)
	case CategoryStorage:
		var spec StorageSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, err
		}
		return NewStorage(spec)
	case CategoryHDD:
		var spec HDDSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, err
		}
		return NewHDD(spec)
	case CategorySSD:
		var spec SSDSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, err
		}
		return NewSSD(spec)
	default:
		return nil, fmt.Errorf("no decoder for category %s", category)
	}
}
