// Copyright 2026 VoiceBridge Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 VoiceBridge 测试的共享工具和辅助函数。

# 概述

testutil 包为各包的单元测试提供统一的辅助能力，避免重复实现
相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 断言工具: AssertJSONEqual / AssertContains / AssertEventuallyTrue
  - 数据工具: MustJSON / MustParseJSON / AudioBytes（按 16 KiB/s
    构造指定时长的伪音频）

# 子包

  - testutil/mocks: MockElevenLabs，基于 httptest 的 ElevenLabs 模拟服务，
    按方法与路径注册响应，记录收到的请求供断言
*/
package testutil
