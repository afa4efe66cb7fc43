// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fidelio

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for Contract implementations.
//
// Account code is not interpreted by the engine. Instead, the code stored in
// an account names a contract implementation registered here, e.g.
// "mxsc:adder". Typically, registration is part of the init code of the
// package providing the implementation. Thus, by including the package, its
// contracts become available to every engine instance in the binary.

// ContractFactory is the type of a function that creates a Contract for the
// given code.
type ContractFactory func(code Code) (Contract, error)

// NewContract performs a lookup for the given code (case-insensitive) in the
// registry and creates a new Contract. An error is returned if no factory was
// registered for the code.
func NewContract(code Code) (Contract, error) {
	factory := GetContractFactory(string(code))
	if factory == nil {
		return nil, fmt.Errorf("contract not found: %s", string(code))
	}
	return factory(code)
}

// GetContractFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetContractFactory(name string) ContractFactory {
	contractRegistryLock.Lock()
	defer contractRegistryLock.Unlock()
	return contractRegistry[strings.ToLower(name)]
}

// GetAllRegisteredContracts obtains all registered implementations.
func GetAllRegisteredContracts() map[string]ContractFactory {
	contractRegistryLock.Lock()
	defer contractRegistryLock.Unlock()
	return maps.Clone(contractRegistry)
}

// RegisterContractFactory registers a new Contract implementation under the
// given code name. The name is not case-sensitive. An error is returned if a
// factory was bound to the same name before, or the factory is nil.
func RegisterContractFactory(name string, factory ContractFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	contractRegistryLock.Lock()
	defer contractRegistryLock.Unlock()
	if _, found := contractRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	contractRegistry[key] = factory
	return nil
}

// MustRegisterContract registers a stateless contract instance under the
// given name and panics on failure. It is intended for package
// initialization code.
func MustRegisterContract(name string, contract Contract) {
	if contract == nil {
		panic(fmt.Sprintf("invalid initialization: cannot register nil-contract using `%s`", name))
	}
	err := RegisterContractFactory(name, func(Code) (Contract, error) {
		return contract, nil
	})
	if err != nil {
		panic(err)
	}
}

// contractRegistry is a global registry for Contract factories.
var contractRegistry = map[string]ContractFactory{}

// contractRegistryLock to protect access to the registry.
var contractRegistryLock sync.Mutex
