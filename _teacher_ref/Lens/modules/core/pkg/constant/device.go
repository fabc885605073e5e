// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package constant

const (
	DeviceTypeGPU  = "gpu"
	DeviceTypeIB   = "ib"
	DeviceTypeRDMA = "rdma"
)

const (
	DeviceChangelogOpCreate = "CREATE"
	DeviceChangelogOpUpdate = "UPDATE"
	DeviceChangelogOpDelete = "DELETE"
)
