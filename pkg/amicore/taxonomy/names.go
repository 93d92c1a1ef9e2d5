package taxonomy

// builtin is the fixed event table. Names are unique across all categories.
var builtin = [][]Kind{
	coreKinds,
	callKinds,
	deviceKinds,
	queueKinds,
	agiKinds,
	conferenceKinds,
	contactKinds,
	spyKinds,
	faxKinds,
	meetmeKinds,
	miscKinds,
}

var coreKinds = []Kind{
	entry("AuthDetail", CategoryCore),
	terminator("AuthListComplete", CategoryCore),
	entry("Status", CategoryCore),
	terminator("StatusComplete", CategoryCore),
	unsolicited("FullyBooted", CategoryCore),
	unsolicited("Reload", CategoryCore),
	unsolicited("Shutdown", CategoryCore),
	unsolicited("LogChannel", CategoryCore),
	unsolicited("LoadAverageLimit", CategoryCore),
	unsolicited("MemoryLimit", CategoryCore),
	unsolicited("SessionLimit", CategoryCore),
	unsolicited("SessionTimeout", CategoryCore),
	unsolicited("SuccessfulAuth", CategoryCore),
	unsolicited("FailedACL", CategoryCore),
	unsolicited("InvalidAccountID", CategoryCore),
	unsolicited("InvalidPassword", CategoryCore),
	unsolicited("InvalidTransport", CategoryCore),
	unsolicited("ChallengeSent", CategoryCore),
	unsolicited("ChallengeResponseFailed", CategoryCore),
	unsolicited("AuthMethodNotAllowed", CategoryCore),
	unsolicited("RequestBadFormat", CategoryCore),
	unsolicited("RequestNotAllowed", CategoryCore),
	unsolicited("RequestNotSupported", CategoryCore),
	unsolicited("UnexpectedAddress", CategoryCore),
	standalone("ModuleLoadReport", CategoryCore),
	entry("TransportDetail", CategoryCore),
	terminator("TransportDetailComplete", CategoryCore),
}

var callKinds = []Kind{
	unsolicited("Newchannel", CategoryCall),
	unsolicited("Newstate", CategoryCall),
	unsolicited("Newexten", CategoryCall),
	unsolicited("NewCallerid", CategoryCall),
	unsolicited("NewConnectedLine", CategoryCall),
	unsolicited("NewAccountCode", CategoryCall),
	unsolicited("Hangup", CategoryCall),
	unsolicited("HangupRequest", CategoryCall),
	unsolicited("SoftHangupRequest", CategoryCall),
	unsolicited("Hold", CategoryCall),
	unsolicited("Unhold", CategoryCall),
	unsolicited("Rename", CategoryCall),
	unsolicited("VarSet", CategoryCall),
	unsolicited("DialBegin", CategoryCall),
	unsolicited("DialState", CategoryCall),
	unsolicited("DialEnd", CategoryCall),
	unsolicited("DTMFBegin", CategoryCall),
	unsolicited("DTMFEnd", CategoryCall),
	unsolicited("BridgeCreate", CategoryCall),
	unsolicited("BridgeDestroy", CategoryCall),
	unsolicited("BridgeEnter", CategoryCall),
	unsolicited("BridgeLeave", CategoryCall),
	unsolicited("BridgeMerge", CategoryCall),
	unsolicited("BridgeVideoSourceUpdate", CategoryCall),
	entry("BridgeInfoChannel", CategoryCall),
	terminator("BridgeInfoComplete", CategoryCall),
	entry("BridgeListItem", CategoryCall),
	terminator("BridgeListComplete", CategoryCall),
	unsolicited("BlindTransfer", CategoryCall),
	unsolicited("AttendedTransfer", CategoryCall),
	unsolicited("LocalBridge", CategoryCall),
	unsolicited("LocalOptimizationBegin", CategoryCall),
	unsolicited("LocalOptimizationEnd", CategoryCall),
	unsolicited("MusicOnHoldStart", CategoryCall),
	unsolicited("MusicOnHoldStop", CategoryCall),
	unsolicited("MixMonitorStart", CategoryCall),
	unsolicited("MixMonitorStop", CategoryCall),
	unsolicited("MixMonitorMute", CategoryCall),
	unsolicited("ChannelTalkingStart", CategoryCall),
	unsolicited("ChannelTalkingStop", CategoryCall),
	unsolicited("Pickup", CategoryCall),
	unsolicited("ParkedCall", CategoryCall),
	unsolicited("ParkedCallGiveUp", CategoryCall),
	unsolicited("ParkedCallTimeOut", CategoryCall),
	unsolicited("ParkedCallSwap", CategoryCall),
	unsolicited("UnParkedCall", CategoryCall),
	entry("Parkinglot", CategoryCall),
	terminator("ParkinglotsComplete", CategoryCall),
	terminator("ParkedCallsComplete", CategoryCall),
	entry("CoreShowChannel", CategoryCall),
	terminator("CoreShowChannelsComplete", CategoryCall),
	standalone("OriginateResponse", CategoryCall),
	unsolicited("Cdr", CategoryCall),
	unsolicited("CEL", CategoryCall),
}

var deviceKinds = []Kind{
	unsolicited("DeviceStateChange", CategoryDevice),
	unsolicited("ExtensionStatus", CategoryDevice),
	unsolicited("PresenceStateChange", CategoryDevice),
	unsolicited("PresenceStatus", CategoryDevice),
	unsolicited("PeerStatus", CategoryDevice),
	unsolicited("Registry", CategoryDevice),
	terminator("DeviceStateListComplete", CategoryDevice),
	terminator("ExtensionStateListComplete", CategoryDevice),
	terminator("PresenceStateListComplete", CategoryDevice),
	entry("EndpointList", CategoryDevice),
	terminator("EndpointListComplete", CategoryDevice),
	entry("EndpointDetail", CategoryDevice),
	terminator("EndpointDetailComplete", CategoryDevice),
	entry("IdentifyDetail", CategoryDevice),
	entry("PeerEntry", CategoryDevice),
	terminator("PeerlistComplete", CategoryDevice),
	entry("RegistryEntry", CategoryDevice),
	terminator("RegistrationsComplete", CategoryDevice),
	entry("OutboundRegistrationDetail", CategoryDevice),
	entry("InboundRegistrationDetail", CategoryDevice),
	entry("ResourceListDetail", CategoryDevice),
	entry("InboundSubscriptionDetail", CategoryDevice),
	entry("OutboundSubscriptionDetail", CategoryDevice),
}

var queueKinds = []Kind{
	unsolicited("AgentCalled", CategoryQueue),
	unsolicited("AgentComplete", CategoryQueue),
	unsolicited("AgentConnect", CategoryQueue),
	unsolicited("AgentDump", CategoryQueue),
	unsolicited("AgentLogin", CategoryQueue),
	unsolicited("AgentLogoff", CategoryQueue),
	unsolicited("AgentRingNoAnswer", CategoryQueue),
	entry("Agents", CategoryQueue),
	terminator("AgentsComplete", CategoryQueue),
	unsolicited("QueueCallerAbandon", CategoryQueue),
	unsolicited("QueueCallerJoin", CategoryQueue),
	unsolicited("QueueCallerLeave", CategoryQueue),
	unsolicited("QueueMemberAdded", CategoryQueue),
	unsolicited("QueueMemberPause", CategoryQueue),
	unsolicited("QueueMemberPenalty", CategoryQueue),
	unsolicited("QueueMemberRemoved", CategoryQueue),
	unsolicited("QueueMemberRinginuse", CategoryQueue),
	unsolicited("QueueMemberStatus", CategoryQueue),
	entry("QueueParams", CategoryQueue),
	entry("QueueMember", CategoryQueue),
	entry("QueueEntry", CategoryQueue),
	terminator("QueueStatusComplete", CategoryQueue),
	entry("QueueSummary", CategoryQueue),
	terminator("QueueSummaryComplete", CategoryQueue),
}

var agiKinds = []Kind{
	unsolicited("AGIExecStart", CategoryAgi),
	unsolicited("AGIExecEnd", CategoryAgi),
	unsolicited("AsyncAGIStart", CategoryAgi),
	standalone("AsyncAGIExec", CategoryAgi),
	unsolicited("AsyncAGIEnd", CategoryAgi),
}

var conferenceKinds = []Kind{
	unsolicited("ConfbridgeStart", CategoryConference),
	unsolicited("ConfbridgeEnd", CategoryConference),
	unsolicited("ConfbridgeJoin", CategoryConference),
	unsolicited("ConfbridgeLeave", CategoryConference),
	unsolicited("ConfbridgeMute", CategoryConference),
	unsolicited("ConfbridgeUnmute", CategoryConference),
	unsolicited("ConfbridgeRecord", CategoryConference),
	unsolicited("ConfbridgeStopRecord", CategoryConference),
	unsolicited("ConfbridgeTalking", CategoryConference),
	entry("ConfbridgeList", CategoryConference),
	terminator("ConfbridgeListComplete", CategoryConference),
	entry("ConfbridgeListRooms", CategoryConference),
	terminator("ConfbridgeListRoomsComplete", CategoryConference),
}

var contactKinds = []Kind{
	unsolicited("ContactStatus", CategoryContact),
	entry("ContactStatusDetail", CategoryContact),
	entry("ContactList", CategoryContact),
	terminator("ContactListComplete", CategoryContact),
}

var spyKinds = []Kind{
	unsolicited("ChanSpyStart", CategorySpy),
	unsolicited("ChanSpyStop", CategorySpy),
}

var faxKinds = []Kind{
	unsolicited("FAXStatus", CategoryFax),
	unsolicited("ReceiveFAX", CategoryFax),
	unsolicited("SendFAX", CategoryFax),
	standalone("FAXSession", CategoryFax),
	standalone("FAXStats", CategoryFax),
	entry("FAXSessionsEntry", CategoryFax),
	terminator("FAXSessionsComplete", CategoryFax),
}

var meetmeKinds = []Kind{
	unsolicited("MeetmeJoin", CategoryMeetme),
	unsolicited("MeetmeLeave", CategoryMeetme),
	unsolicited("MeetmeEnd", CategoryMeetme),
	unsolicited("MeetmeMute", CategoryMeetme),
	unsolicited("MeetmeTalking", CategoryMeetme),
	unsolicited("MeetmeTalkRequest", CategoryMeetme),
	entry("MeetmeList", CategoryMeetme),
	terminator("MeetmeListComplete", CategoryMeetme),
	entry("MeetmeListRooms", CategoryMeetme),
	terminator("MeetmeListRoomsComplete", CategoryMeetme),
}

var miscKinds = []Kind{
	entry("AorDetail", CategoryMisc),
	entry("AorList", CategoryMisc),
	terminator("AorListComplete", CategoryMisc),
	standalone("UserEvent", CategoryMisc),
	standalone("DBGetResponse", CategoryMisc),
	terminator("DBGetComplete", CategoryMisc),
	unsolicited("Alarm", CategoryMisc),
	unsolicited("AlarmClear", CategoryMisc),
	unsolicited("SpanAlarm", CategoryMisc),
	unsolicited("SpanAlarmClear", CategoryMisc),
	unsolicited("DNDState", CategoryMisc),
	unsolicited("MCID", CategoryMisc),
	unsolicited("Flash", CategoryMisc),
	unsolicited("Wink", CategoryMisc),
	unsolicited("MessageWaiting", CategoryMisc),
	entry("MWIGet", CategoryMisc),
	terminator("MWIGetComplete", CategoryMisc),
	unsolicited("VoicemailPasswordChange", CategoryMisc),
	entry("VoicemailUserEntry", CategoryMisc),
	terminator("VoicemailUserEntryComplete", CategoryMisc),
	entry("ListDialplan", CategoryMisc),
	terminator("ShowDialPlanComplete", CategoryMisc),
	unsolicited("DAHDIChannel", CategoryMisc),
	entry("DAHDIShowChannels", CategoryMisc),
	terminator("DAHDIShowChannelsComplete", CategoryMisc),
}
