// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package clientsets

const (
	StorageConfigSecretNamespace = "primus-lens"
	StorageConfigSecretName      = "primus-lens-storage-config"
	MultiStorageConfigSecretName = "primus-lens-multi-storage-config"
	MultiK8SConfigSecretName     = "primus-lens-multi-k8s-config"
)
